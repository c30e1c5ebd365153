// internal/domain/models/club.go
package models

import "time"

// Club represents a hunting club.
//
// MemberCount is a denormalized counter incremented on every approved
// membership. It is not reconciled against the club_memberships collection,
// so it can drift from the true count.
type Club struct {
	ID     string `bson:"_id" json:"id"`
	Name   string `bson:"name" json:"name"`
	NameCI string `bson:"name_ci" json:"name_ci"`

	OwnerID     string `bson:"owner_id" json:"owner_id"`
	MemberCount int    `bson:"member_count" json:"member_count"`

	IsPublic         bool `bson:"is_public" json:"is_public"`
	RequiresApproval bool `bson:"requires_approval" json:"requires_approval"`
	MaxMembers       int  `bson:"max_members,omitempty" json:"max_members,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
