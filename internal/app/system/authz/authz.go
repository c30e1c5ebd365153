// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/huntclub/internal/app/system/auth"
)

// UserCtx returns the verified user's uid, email, and a found flag.
// ok=false means the request is unauthenticated.
func UserCtx(r *http.Request) (uid string, email string, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", false
	}
	return u.UID, u.Email, true
}

// IsSuperAdmin reports whether the current request's user is a super admin.
func IsSuperAdmin(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.IsSuperAdmin
}

// IsSelf reports whether the current request's user is userID.
func IsSelf(r *http.Request, userID string) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.UID == userID
}
