// internal/domain/models/user.go
package models

import "time"

// User represents a hunting-club member account.
//
// The document _id is the identity-provider subject (uid), so user records
// line up one-to-one with auth accounts.
//
// NOTE:
//   - ClubIDs and ActiveClubID are a display cache only. The club_memberships
//     collection is the source of truth for who belongs where; the
//     authoritative claim set is derived from it, never from these fields.
type User struct {
	ID          string `bson:"_id" json:"id"`
	Email       string `bson:"email" json:"email"`
	DisplayName string `bson:"display_name" json:"display_name"`

	ClubIDs      []string `bson:"club_ids,omitempty" json:"club_ids,omitempty"`
	ActiveClubID string   `bson:"active_club_id,omitempty" json:"active_club_id,omitempty"`
	IsSuperAdmin bool     `bson:"is_super_admin,omitempty" json:"is_super_admin,omitempty"`

	// Set by invite acceptance, which writes role/tier onto the user record
	// instead of creating a membership document.
	Role           string `bson:"role,omitempty" json:"role,omitempty"`
	MembershipTier string `bson:"membership_tier,omitempty" json:"membership_tier,omitempty"`
	ApprovalStatus string `bson:"approval_status,omitempty" json:"approval_status,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
