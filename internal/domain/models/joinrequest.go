// internal/domain/models/joinrequest.go
package models

import "time"

// Join request status values.
const (
	JoinRequestPending   = "pending"
	JoinRequestApproved  = "approved"
	JoinRequestRejected  = "rejected"
	JoinRequestCancelled = "cancelled"
)

// ClubJoinRequest is a pending ask to join a public club.
// At most one pending request should exist per (user, club); the submit path
// enforces this with a pre-check query rather than a unique index, so the
// guarantee is best-effort under concurrent submission.
type ClubJoinRequest struct {
	ID      string `bson:"_id" json:"id"`
	UserID  string `bson:"user_id" json:"user_id"`
	ClubID  string `bson:"club_id" json:"club_id"`
	Status  string `bson:"status" json:"status"`
	Message string `bson:"message,omitempty" json:"message,omitempty"`

	ReviewedBy string     `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	ReviewNote string     `bson:"review_note,omitempty" json:"review_note,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
