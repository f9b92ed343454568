// ABOUTME: HTTP middleware for bearer token authentication on API endpoints
// ABOUTME: Extracts the token from the Authorization header and adds Identity to context

package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Middleware creates an HTTP middleware that authenticates requests with the
// given service. On success the Identity is attached to the request context
// via WithIdentity; on failure the request is rejected with 401 and a
// constant-shape JSON body.
func Middleware(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				writeUnauthenticated(w)
				return
			}

			user, binding, err := svc.ResolveToken(r.Context(), token)
			if err != nil {
				writeUnauthenticated(w)
				return
			}

			identity := &Identity{
				UserID:  user.ID,
				Email:   user.Email,
				Name:    user.Name,
				TokenID: binding.ID,
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// writeUnauthenticated emits the single 401 shape used for every auth
// failure. Cause is deliberately not surfaced to the client.
func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": "Unauthenticated."})
}
