package http

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
)

type Handlers struct {
	Products      *ProductHandler
	Rentals       *RentalHandler
	Quotations    *QuotationHandler
	Notifications *NotificationHandler
	Automation    *AutomationHandler
}

// NewRouter wires every route under its security name. Route names are the
// keys of config.EndpointSecurityConfig.
func NewRouter(h Handlers, auth *AuthMiddleware, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(auth.Handler)

	r.HandleFunc("/healthz", health).Methods(http.MethodGet).Name("Health")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/products", h.Products.CreateProduct).Methods(http.MethodPost).Name("CreateProduct")
	api.HandleFunc("/products/{id}", h.Products.GetProduct).Methods(http.MethodGet).Name("GetProduct")
	api.HandleFunc("/products/{id}/slots", h.Products.AddSlot).Methods(http.MethodPost).Name("AddSlot")
	api.HandleFunc("/products/{id}/slots", h.Products.ListSlots).Methods(http.MethodGet).Name("ListSlots")

	// "my" must be matched before {id}
	api.HandleFunc("/rentals", h.Rentals.CreateRental).Methods(http.MethodPost).Name("CreateRental")
	api.HandleFunc("/rentals", h.Rentals.ListRentals).Methods(http.MethodGet).Name("ListRentals")
	api.HandleFunc("/rentals/my", h.Rentals.ListMyRentals).Methods(http.MethodGet).Name("ListMyRentals")
	api.HandleFunc("/rentals/{id}", h.Rentals.GetRental).Methods(http.MethodGet).Name("GetRental")
	api.HandleFunc("/rentals/{id}/status", h.Rentals.UpdateRentalStatus).Methods(http.MethodPut).Name("UpdateRentalStatus")
	api.HandleFunc("/rentals/{id}/history", h.Rentals.GetRentalHistory).Methods(http.MethodGet).Name("GetRentalHistory")
	api.HandleFunc("/rentals/{id}/return", h.Rentals.GetRentalReturn).Methods(http.MethodGet).Name("GetRentalReturn")
	api.HandleFunc("/rentals/{id}/quotation", h.Rentals.GetRentalQuotation).Methods(http.MethodGet).Name("GetRentalQuotation")

	api.HandleFunc("/quotations", h.Quotations.CreateOrUpdateQuotation).Methods(http.MethodPost).Name("CreateOrUpdateQuotation")
	api.HandleFunc("/quotations", h.Quotations.ListQuotations).Methods(http.MethodGet).Name("ListQuotations")
	api.HandleFunc("/quotations/my", h.Quotations.ListMyQuotations).Methods(http.MethodGet).Name("ListMyQuotations")
	api.HandleFunc("/quotations/{id}/accept", h.Quotations.AcceptQuotation).Methods(http.MethodPost).Name("AcceptQuotation")

	api.HandleFunc("/notifications", h.Notifications.ListNotifications).Methods(http.MethodGet).Name("ListNotifications")
	api.HandleFunc("/notifications/{id}/read", h.Notifications.MarkNotificationRead).Methods(http.MethodPut).Name("MarkNotificationRead")

	api.HandleFunc("/automation/apply-late-fees", h.Automation.ApplyLateFees).Methods(http.MethodPost).Name("ApplyLateFees")
	api.HandleFunc("/automation/send-overdue-reminders", h.Automation.SendOverdueReminders).Methods(http.MethodPost).Name("SendOverdueReminders")

	c := cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return logRequests(c(r))
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
