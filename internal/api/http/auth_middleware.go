package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"sewasaathi-backend/internal/config"
	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/security"
)

var (
	errMissingToken = errors.New("authorization token is not provided")
)

type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

// Handler authenticates the request according to the security level of the
// matched route and puts the caller on the request context.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}
		level := config.RouteSecurity(name)

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractToken(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "UNAUTHENTICATED", Message: err.Error()})
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "UNAUTHENTICATED", Message: "invalid token: " + err.Error()})
			return
		}

		if level == config.SecurityAdmin && claims.Role != domain.RoleAdmin {
			writeError(w, domain.NewError(domain.KindUnauthorized, "admin role required"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), claims.Actor())))
	})
}

func extractToken(r *http.Request) (string, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return "", errMissingToken
	}
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}
	return strings.TrimSpace(token), nil
}
