// internal/app/features/invites/routes.go
package invites

import "github.com/go-chi/chi/v5"

// Routes mounts the invite redemption path under the base path (typically
// "/invites" from bootstrap). Invite creation lives on the club-scoped
// path; bootstrap wires HandleCreate into the clubs router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/accept", h.HandleAccept)
	return r
}
