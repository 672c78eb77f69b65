package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/tenant-management/internal/auth"
	"github.com/frahmantamala/tenant-management/internal/rbac"
)

// RequireRoles builds a middleware that rejects requests whose actor does
// not hold (or subsume) at least one of the given roles. Tenancy scoping is
// not checked here; services run the full authorization gate against the
// target record.
func RequireRoles(roles ...rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.ActorFromContext(r.Context())
			if !ok || actor == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !actor.Role.SatisfiesAny(roles) {
				slog.Warn("access denied: insufficient role",
					"user_id", actor.UserID,
					"actor_role", actor.Role,
					"required_roles", roles)
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
