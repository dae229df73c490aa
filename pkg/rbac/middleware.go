package rbac

import (
	"encoding/json"
	"net/http"
)

const (
	msgPermissionDenied = "Access denied. Insufficient permissions."
	msgRoleDenied       = "Access denied. Insufficient role level."
	msgLoginRequired    = "Authentication required."
)

// RequirePermissionMiddleware rejects requests whose actor lacks permission.
// Requests without an actor get 401, denied actors get 403.
func RequirePermissionMiddleware(a *Authorizer, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, msgLoginRequired)
				return
			}
			if err := a.RequirePermission(r.Context(), actor, permission); err != nil {
				writeError(w, http.StatusForbidden, msgPermissionDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoleMiddleware rejects requests whose actor's role is below role.
func RequireRoleMiddleware(a *Authorizer, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, msgLoginRequired)
				return
			}
			if err := a.RequireRole(r.Context(), actor, role); err != nil {
				writeError(w, http.StatusForbidden, msgRoleDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
