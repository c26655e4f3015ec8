// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token with ADMIN role required
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"Health": SecurityPublic,

	// Products and slots
	"CreateProduct": SecurityAccess,
	"GetProduct":    SecurityAccess,
	"AddSlot":       SecurityAccess,
	"ListSlots":     SecurityAccess,

	// Rentals
	"CreateRental":       SecurityAccess,
	"ListRentals":        SecurityAdmin,
	"ListMyRentals":      SecurityAccess,
	"GetRental":          SecurityAccess,
	"UpdateRentalStatus": SecurityAccess,
	"GetRentalHistory":   SecurityAccess,
	"GetRentalReturn":    SecurityAccess,
	"GetRentalQuotation": SecurityAccess,

	// Quotations
	"CreateOrUpdateQuotation": SecurityAccess,
	"AcceptQuotation":         SecurityAccess,
	"ListQuotations":          SecurityAdmin,
	"ListMyQuotations":        SecurityAccess,

	// Notifications
	"ListNotifications":    SecurityAccess,
	"MarkNotificationRead": SecurityAccess,

	// Automation
	"ApplyLateFees":        SecurityAdmin,
	"SendOverdueReminders": SecurityAdmin,
}

// RouteSecurity returns the level for a named route. Unknown routes require
// an access token.
func RouteSecurity(name string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[name]; ok {
		return level
	}
	return SecurityAccess
}
