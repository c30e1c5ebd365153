// Package clubpolicy provides authorization policies for club management.
//
// Authorization rules:
//   - Super admins can manage any club
//   - Club owners and managers can review join requests, create invites,
//     and remove members for their club
//   - Plain members cannot manage the club
package clubpolicy

import (
	"context"
	"errors"
	"net/http"

	membershipstore "github.com/dalemusser/huntclub/internal/app/store/memberships"
	"github.com/dalemusser/huntclub/internal/app/system/authz"
	"github.com/dalemusser/huntclub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// CanManageClub reports whether the current user may administer clubID
// (approve/reject join requests, invite, remove members).
//
// Returns an error only if a database operation fails.
func CanManageClub(ctx context.Context, db *mongo.Database, r *http.Request, clubID string) (bool, error) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}
	if authz.IsSuperAdmin(r) {
		return true, nil
	}

	m, err := membershipstore.New(db).Get(ctx, clubID, uid)
	if err != nil {
		if errors.Is(err, membershipstore.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !m.Claimed() {
		return false, nil
	}
	return m.Role == models.RoleOwner || m.Role == models.RoleManager, nil
}
