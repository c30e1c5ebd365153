// internal/app/features/claimssync/routes.go
package claimssync

import "github.com/go-chi/chi/v5"

// Routes mounts the claims-sync operations under the base path
// (typically "/sync" from bootstrap). Authorization is enforced in the
// handlers via claimspolicy so the unauthenticated/denied distinction
// stays in one place.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/user", h.HandleSyncUser)
	r.Post("/all", h.HandleSyncAll)
	return r
}
