package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/Shravanik22/MediLink/internal/order"
)

type contextKey string

const actorKey contextKey = "actor"

func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := s.users.Authenticate(r.Context(), email, password)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if user.AccountStatus != "active" {
			respondError(w, http.StatusForbidden, "Account is not active")
			return
		}

		actor := order.Actor{ID: user.ID, Role: order.Role(user.Role)}
		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFromContext(ctx context.Context) (order.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(order.Actor)
	return actor, ok
}

func (s *Server) requireRole(next http.HandlerFunc, roles ...order.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				next(w, r)
				return
			}
		}

		names := make([]string, len(roles))
		for i, role := range roles {
			names[i] = string(role)
		}
		respondError(w, http.StatusForbidden,
			"Forbidden: this action requires one of the following roles: "+strings.Join(names, ", "))
	}
}
