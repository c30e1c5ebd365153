// Package claimspolicy provides authorization policies for the claims
// synchronization operations.
//
// Authorization rules:
//   - Any authenticated user may sync their own claims
//   - Super admins may sync any user's claims
//   - Only super admins may run the all-users reconciliation
package claimspolicy

import (
	"net/http"

	"github.com/dalemusser/huntclub/internal/app/system/authz"
)

// Decision is the outcome of a policy check. At most one of Allowed or
// Unauthenticated is set; the zero value means an authenticated caller
// was denied.
type Decision struct {
	Allowed         bool
	Unauthenticated bool
}

// CanSyncUser determines whether the current user may force a claims
// recomputation for targetUserID. An empty target means "self".
func CanSyncUser(r *http.Request, targetUserID string) Decision {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		return Decision{Unauthenticated: true}
	}
	if targetUserID == "" || targetUserID == uid {
		return Decision{Allowed: true}
	}
	if authz.IsSuperAdmin(r) {
		return Decision{Allowed: true}
	}
	return Decision{}
}

// CanSyncAll determines whether the current user may run the all-users
// reconciliation. There is no self-service path here.
func CanSyncAll(r *http.Request) Decision {
	if _, _, ok := authz.UserCtx(r); !ok {
		return Decision{Unauthenticated: true}
	}
	if authz.IsSuperAdmin(r) {
		return Decision{Allowed: true}
	}
	return Decision{}
}
