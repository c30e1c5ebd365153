// internal/domain/models/clubmembership.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// Membership role values.
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleMember  = "member"
)

// Membership status values.
const (
	MembershipActive    = "active"
	MembershipInactive  = "inactive"
	MembershipSuspended = "suspended"
)

// Approval status values.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// ClubMembership is the authoritative join between a user and a club.
// Exactly one document per (club, user): the document _id is the composite
// "{clubID}_{userID}". Access rules and the approval write path depend on
// that key shape, so it must never change.
type ClubMembership struct {
	ID     string `bson:"_id" json:"id"`
	ClubID string `bson:"club_id" json:"club_id"`
	UserID string `bson:"user_id" json:"user_id"`

	Role             string `bson:"role" json:"role"`
	MembershipStatus string `bson:"membership_status" json:"membership_status"`
	ApprovalStatus   string `bson:"approval_status" json:"approval_status"`
	MembershipTier   string `bson:"membership_tier,omitempty" json:"membership_tier,omitempty"`
	DuesStatus       string `bson:"dues_status,omitempty" json:"dues_status,omitempty"`

	JoinedAt  time.Time `bson:"joined_at" json:"joined_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// MembershipID returns the composite document key for (clubID, userID).
func MembershipID(clubID, userID string) string {
	return fmt.Sprintf("%s_%s", clubID, userID)
}

// SplitMembershipID recovers (clubID, userID) from a composite membership key.
// Club IDs never contain underscores, so the first "_" is the separator.
func SplitMembershipID(id string) (clubID, userID string, ok bool) {
	clubID, userID, ok = strings.Cut(id, "_")
	if !ok || clubID == "" || userID == "" {
		return "", "", false
	}
	return clubID, userID, true
}

// Claimed reports whether this membership contributes its club ID to the
// user's auth claims (active and approved).
func (m ClubMembership) Claimed() bool {
	return m.MembershipStatus == MembershipActive && m.ApprovalStatus == ApprovalApproved
}
