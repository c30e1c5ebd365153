// internal/app/features/clubs/routes.go
package clubs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the club-scoped operations under the base path (typically
// "/clubs" from bootstrap). Join-request submission and invite creation are
// club-scoped paths owned by their own features, so their handlers are
// passed in rather than imported.
func Routes(h *Handler, submitJoinRequest, createInvite http.HandlerFunc) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleCreate)
	r.Delete("/{clubID}/members/{userID}", h.HandleRemoveMember)
	r.Post("/{clubID}/join-requests", submitJoinRequest)
	r.Post("/{clubID}/invites", createInvite)
	return r
}
