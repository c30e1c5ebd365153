// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/huntclub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the Mongo collection backing users.
const Collection = "users"

var (
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	ErrNotFound       = errors.New("user not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts a user record keyed by the identity-provider subject.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.Email = normalizeEmail(u.Email)
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by identity-provider subject.
func (s *Store) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AppendClubID adds clubID to the user's cached club_ids list ($addToSet)
// and sets active_club_id when the user has none. The cache is for client
// display only; the membership documents remain the source of truth.
func (s *Store) AppendClubID(ctx context.Context, userID, clubID string) error {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	update := bson.M{
		"$addToSet": bson.M{"club_ids": clubID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	if u.ActiveClubID == "" {
		update["$set"] = bson.M{
			"active_club_id": clubID,
			"updated_at":     time.Now().UTC(),
		}
	}
	_, err = s.c.UpdateByID(ctx, userID, update)
	return err
}

// ApplyInviteAcceptance writes role, tier and approval directly onto the
// user record. This is the invite path's weaker join mechanism: it does not
// create a membership document, so the claims synchronizer never sees it.
func (s *Store) ApplyInviteAcceptance(ctx context.Context, userID, role, tier string) error {
	res, err := s.c.UpdateByID(ctx, userID, bson.M{"$set": bson.M{
		"role":            role,
		"membership_tier": tier,
		"approval_status": models.ApprovalApproved,
		"updated_at":      time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PromoteSuperAdmin sets is_super_admin on the user with the given email.
// Returns ErrNotFound if no such user exists yet.
func (s *Store) PromoteSuperAdmin(ctx context.Context, email string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalizeEmail(email)},
		bson.M{"$set": bson.M{"is_super_admin": true, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
