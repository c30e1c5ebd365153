// internal/app/features/joinrequests/routes.go
package joinrequests

import "github.com/go-chi/chi/v5"

// Routes mounts the review/cancel operations under the base path
// (typically "/join-requests" from bootstrap). Submission lives on the
// club-scoped path; bootstrap wires HandleSubmit into the clubs router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/{id}/approve", h.HandleApprove)
	r.Post("/{id}/reject", h.HandleReject)
	r.Post("/{id}/cancel", h.HandleCancel)
	return r
}
