package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
)

// actorMiddleware extracts the pre-validated acting identity from the
// X-Actor-ID and X-Actor-Roles headers. Authentication belongs to the
// identity collaborator in front of this service; requests arriving
// without an identity are rejected.
func actorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get("X-Actor-ID")
		if rawID == "" {
			http.Error(w, "actor identity required", http.StatusUnauthorized)
			return
		}

		actorID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || actorID <= 0 {
			http.Error(w, "invalid actor identity", http.StatusUnauthorized)
			return
		}

		var roleNames []string
		if raw := r.Header.Get("X-Actor-Roles"); raw != "" {
			for _, name := range strings.Split(raw, ",") {
				roleNames = append(roleNames, strings.TrimSpace(name))
			}
		}

		actor := &model.Actor{
			ID:    actorID,
			Roles: types.ParseRoles(roleNames),
		}

		ctx := model.ContextWithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
