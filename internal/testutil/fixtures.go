package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/huntclub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user keyed by uid.
func (f *Fixtures) CreateUser(ctx context.Context, uid, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:          uid,
		Email:       email,
		DisplayName: name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateSuperAdmin creates a test user with the super-admin flag set.
func (f *Fixtures) CreateSuperAdmin(ctx context.Context, uid, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           uid,
		Email:        email,
		DisplayName:  name,
		IsSuperAdmin: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test super admin: %v", err)
	}
	return user
}

// CreateClub creates a test club owned by ownerID.
func (f *Fixtures) CreateClub(ctx context.Context, name, ownerID string) models.Club {
	f.t.Helper()

	now := time.Now().UTC()
	club := models.Club{
		ID:          uuid.NewString(),
		Name:        name,
		NameCI:      text.Fold(name),
		OwnerID:     ownerID,
		MemberCount: 1,
		IsPublic:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("clubs").InsertOne(ctx, club); err != nil {
		f.t.Fatalf("failed to create test club: %v", err)
	}
	return club
}

// CreateMembership creates a membership document at the composite key.
func (f *Fixtures) CreateMembership(ctx context.Context, clubID, userID, role, membershipStatus, approvalStatus string) models.ClubMembership {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.ClubMembership{
		ID:               models.MembershipID(clubID, userID),
		ClubID:           clubID,
		UserID:           userID,
		Role:             role,
		MembershipStatus: membershipStatus,
		ApprovalStatus:   approvalStatus,
		JoinedAt:         now,
		UpdatedAt:        now,
	}
	if _, err := f.db.Collection("club_memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateActiveMembership creates an active, approved membership (CLAIMED).
func (f *Fixtures) CreateActiveMembership(ctx context.Context, clubID, userID, role string) models.ClubMembership {
	f.t.Helper()
	return f.CreateMembership(ctx, clubID, userID, role,
		models.MembershipActive, models.ApprovalApproved)
}

// CreateJoinRequest creates a pending join request.
func (f *Fixtures) CreateJoinRequest(ctx context.Context, clubID, userID string) models.ClubJoinRequest {
	f.t.Helper()

	now := time.Now().UTC()
	req := models.ClubJoinRequest{
		ID:        uuid.NewString(),
		UserID:    userID,
		ClubID:    clubID,
		Status:    models.JoinRequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("club_join_requests").InsertOne(ctx, req); err != nil {
		f.t.Fatalf("failed to create test join request: %v", err)
	}
	return req
}

// CreateInvite creates a pending invite with the given code and expiry.
func (f *Fixtures) CreateInvite(ctx context.Context, clubID, email, code string, expiresAt time.Time) models.Invite {
	f.t.Helper()

	now := time.Now().UTC()
	inv := models.Invite{
		ID:         uuid.NewString(),
		ClubID:     clubID,
		Email:      email,
		Role:       models.RoleMember,
		InviteCode: code,
		Status:     models.InvitePending,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("invites").InsertOne(ctx, inv); err != nil {
		f.t.Fatalf("failed to create test invite: %v", err)
	}
	return inv
}
