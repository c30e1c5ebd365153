// internal/app/store/joinrequests/joinrequeststore.go
package joinrequeststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/huntclub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the Mongo collection backing club join requests.
const Collection = "club_join_requests"

var ErrNotFound = errors.New("join request not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts a pending join request.
func (s *Store) Create(ctx context.Context, req models.ClubJoinRequest) (models.ClubJoinRequest, error) {
	now := time.Now().UTC()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = models.JoinRequestPending
	req.CreatedAt = now
	req.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, req); err != nil {
		return models.ClubJoinRequest{}, err
	}
	return req, nil
}

// GetByID loads a join request by ID.
func (s *Store) GetByID(ctx context.Context, id string) (*models.ClubJoinRequest, error) {
	var req models.ClubJoinRequest
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// HasPending reports whether a pending request already exists for
// (userID, clubID). This is a pre-check query, not an atomic guard: two
// concurrent submissions can both pass it. Known, accepted race.
func (s *Store) HasPending(ctx context.Context, userID, clubID string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"user_id": userID,
		"club_id": clubID,
		"status":  models.JoinRequestPending,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetStatus transitions a request and records reviewer metadata when a
// reviewer is given.
func (s *Store) SetStatus(ctx context.Context, id, status, reviewedBy, note string) error {
	now := time.Now().UTC()
	set := bson.M{
		"status":     status,
		"updated_at": now,
	}
	if reviewedBy != "" {
		set["reviewed_by"] = reviewedBy
		set["reviewed_at"] = now
	}
	if note != "" {
		set["review_note"] = note
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
