// internal/domain/models/invite.go
package models

import "time"

// Invite status values.
const (
	InvitePending   = "pending"
	InviteAccepted  = "accepted"
	InviteExpired   = "expired"
	InviteCancelled = "cancelled"
)

// Invite is an out-of-band invitation to join a club, redeemed by code.
//
// Acceptance flips Status to "accepted" and writes role/tier directly onto
// the invitee's user record. It does not create a ClubMembership document,
// so it never passes through the claims synchronizer. That asymmetry with
// the join-request path is deliberate source behavior, kept as-is.
type Invite struct {
	ID             string `bson:"_id" json:"id"`
	ClubID         string `bson:"club_id" json:"club_id"`
	Email          string `bson:"email" json:"email"`
	Role           string `bson:"role" json:"role"`
	MembershipTier string `bson:"membership_tier,omitempty" json:"membership_tier,omitempty"`

	InviteCode string `bson:"invite_code" json:"invite_code"`
	Status     string `bson:"status" json:"status"`
	InvitedBy  string `bson:"invited_by" json:"invited_by"`

	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Expired reports whether the invite's expiry has passed at time now.
func (i Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
