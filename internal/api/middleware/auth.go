package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/docbuddy/docbuddy/internal/service"
)

type contextKey string

const doctorKey contextKey = "doctor"

// SessionCookieName carries the session token; the name matches the cookie
// the original web client stores.
const SessionCookieName = "docbuddy_token"

// Auth is the session guard for protected routes. It fails closed: a missing
// or invalid credential short-circuits with 401 before the handler runs, and
// the two cases are indistinguishable in the response body.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				log.Printf("ERROR [middleware.Auth] missing credential")
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			claims, err := authService.ValidateToken(token)
			if err != nil {
				log.Printf("ERROR [middleware.Auth] credential rejected: %v", err)
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), doctorKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken prefers the session cookie and falls back to a bearer header.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// GetDoctor returns the authenticated principal snapshot from the request
// context.
func GetDoctor(ctx context.Context) (*service.DoctorClaims, bool) {
	claims, ok := ctx.Value(doctorKey).(*service.DoctorClaims)
	return claims, ok
}
