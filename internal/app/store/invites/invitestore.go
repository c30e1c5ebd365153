// internal/app/store/invites/invitestore.go
package invitestore

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/huntclub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the Mongo collection backing invites.
const Collection = "invites"

// Invite codes are 8 characters from an unambiguous uppercase alphabet
// (no 0/O, 1/I/L).
const (
	CodeLength   = 8
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// DefaultExpiry is how long a new invite stays redeemable.
const DefaultExpiry = 7 * 24 * time.Hour

var ErrNotFound = errors.New("invite not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts a pending invite with a freshly generated code. The code is
// unique-checked against the collection; on collision a new one is generated
// and the insert retried. The unique index on invite_code backstops the
// check under concurrency.
func (s *Store) Create(ctx context.Context, inv models.Invite) (models.Invite, error) {
	now := time.Now().UTC()
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	inv.Email = strings.ToLower(strings.TrimSpace(inv.Email))
	inv.Status = models.InvitePending
	if inv.ExpiresAt.IsZero() {
		inv.ExpiresAt = now.Add(DefaultExpiry)
	}
	inv.CreatedAt = now
	inv.UpdatedAt = now

	for {
		code, err := GenerateCode()
		if err != nil {
			return models.Invite{}, err
		}
		inv.InviteCode = code

		_, err = s.c.InsertOne(ctx, inv)
		if err == nil {
			return inv, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.Invite{}, err
		}
		// Code collision; regenerate and try again.
	}
}

// HasPending reports whether a pending invite already exists for
// (email, clubID). Pre-check only, same caveats as join requests.
func (s *Store) HasPending(ctx context.Context, email, clubID string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"email":   strings.ToLower(strings.TrimSpace(email)),
		"club_id": clubID,
		"status":  models.InvitePending,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByCode looks up an invite by its redeem code.
func (s *Store) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	var inv models.Invite
	err := s.c.FindOne(ctx, bson.M{"invite_code": strings.ToUpper(strings.TrimSpace(code))}).Decode(&inv)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// SetStatus transitions an invite's status.
func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpirePending flips every pending invite whose expiry has passed to
// "expired". Returns the number of invites expired. Run periodically as a
// background job; the accept path also expires lazily on redemption.
func (s *Store) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"status": models.InvitePending, "expires_at": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"status": models.InviteExpired, "updated_at": now}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// GenerateCode returns a random 8-character invite code.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}
	code := make([]byte, CodeLength)
	for i, b := range buf {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(code), nil
}
