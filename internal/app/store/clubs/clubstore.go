// internal/app/store/clubs/clubstore.go
package clubstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/huntclub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the Mongo collection backing clubs.
const Collection = "clubs"

var (
	ErrDuplicateClub = errors.New("a club with this name already exists")
	ErrNotFound      = errors.New("club not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts a new club with member_count=1 (the owner). The ID is a
// generated UUID unless the caller supplied one.
func (s *Store) Create(ctx context.Context, club models.Club) (models.Club, error) {
	now := time.Now().UTC()
	if club.ID == "" {
		club.ID = uuid.NewString()
	}
	club.NameCI = text.Fold(club.Name)
	club.MemberCount = 1
	club.CreatedAt = now
	club.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, club); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Club{}, ErrDuplicateClub
		}
		return models.Club{}, err
	}
	return club, nil
}

// GetByID loads a club by ID.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Club, error) {
	var club models.Club
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&club)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &club, nil
}

// IncrementMemberCount bumps member_count by reading the current value and
// writing value+1 back. The read-then-write is deliberately non-atomic: the
// original system works this way, and the counter is display-only, so the
// known drift under concurrent approvals is accepted.
func (s *Store) IncrementMemberCount(ctx context.Context, clubID string) error {
	club, err := s.GetByID(ctx, clubID)
	if err != nil {
		return err
	}
	_, err = s.c.UpdateByID(ctx, clubID, bson.M{"$set": bson.M{
		"member_count": club.MemberCount + 1,
		"updated_at":   time.Now().UTC(),
	}})
	return err
}
