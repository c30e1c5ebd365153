// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/huntclub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the Mongo collection backing club memberships.
const Collection = "club_memberships"

var (
	ErrDuplicateMembership = errors.New("user is already a member of this club")
	ErrNotFound            = errors.New("membership not found")

	errBadRole = errors.New(`role must be "owner", "manager" or "member"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts a membership at the composite "{clubID}_{userID}" key.
// The key shape is load-bearing: access rules and the approval write path
// both assume exactly one document per (club, user).
func (s *Store) Create(ctx context.Context, m models.ClubMembership) (models.ClubMembership, error) {
	switch m.Role {
	case models.RoleOwner, models.RoleManager, models.RoleMember:
	default:
		return models.ClubMembership{}, errBadRole
	}

	now := time.Now().UTC()
	m.ID = models.MembershipID(m.ClubID, m.UserID)
	if m.JoinedAt.IsZero() {
		m.JoinedAt = now
	}
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ClubMembership{}, ErrDuplicateMembership
		}
		return models.ClubMembership{}, err
	}
	return m, nil
}

// Get loads the membership for (clubID, userID).
func (s *Store) Get(ctx context.Context, clubID, userID string) (*models.ClubMembership, error) {
	var m models.ClubMembership
	err := s.c.FindOne(ctx, bson.M{"_id": models.MembershipID(clubID, userID)}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Exists reports whether a membership document exists for (clubID, userID).
func (s *Store) Exists(ctx context.Context, clubID, userID string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": models.MembershipID(clubID, userID)}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetStatus updates membership_status and/or approval_status. Empty values
// leave the field unchanged. UpdatedAt is always refreshed.
func (s *Store) SetStatus(ctx context.Context, clubID, userID, membershipStatus, approvalStatus string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if membershipStatus != "" {
		set["membership_status"] = membershipStatus
	}
	if approvalStatus != "" {
		set["approval_status"] = approvalStatus
	}
	res, err := s.c.UpdateByID(ctx, models.MembershipID(clubID, userID), bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the membership for (clubID, userID).
func (s *Store) Delete(ctx context.Context, clubID, userID string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": models.MembershipID(clubID, userID)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns every membership document for a user, any status.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.ClubMembership, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.ClubMembership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// ActiveClubIDs returns the club IDs of every active, approved membership
// for userID. This is the authoritative input to the claims synchronizer.
func (s *Store) ActiveClubIDs(ctx context.Context, userID string) ([]string, error) {
	filter := bson.M{
		"user_id":           userID,
		"membership_status": models.MembershipActive,
		"approval_status":   models.ApprovalApproved,
	}
	proj := options.Find().SetProjection(bson.M{"club_id": 1})
	cur, err := s.c.Find(ctx, filter, proj)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var clubIDs []string
	for cur.Next(ctx) {
		var row struct {
			ClubID string `bson:"club_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		clubIDs = append(clubIDs, row.ClubID)
	}
	return clubIDs, cur.Err()
}

// UserIDs returns the distinct user IDs referenced by any membership
// document. The scan is paginated with $gt on user_id so the whole
// collection never has to fit in one batch.
func (s *Store) UserIDs(ctx context.Context) ([]string, error) {
	return s.userIDsPaged(ctx, 500)
}

func (s *Store) userIDsPaged(ctx context.Context, pageSize int64) ([]string, error) {
	var userIDs []string
	last := ""

	for {
		filter := bson.M{}
		if last != "" {
			filter["user_id"] = bson.M{"$gt": last}
		}

		cur, err := s.c.Aggregate(ctx, []bson.M{
			{"$match": filter},
			{"$group": bson.M{"_id": "$user_id"}},
			{"$sort": bson.M{"_id": 1}},
			{"$limit": pageSize},
		})
		if err != nil {
			return nil, err
		}

		n := 0
		for cur.Next(ctx) {
			var row struct {
				ID string `bson:"_id"`
			}
			if err := cur.Decode(&row); err != nil {
				cur.Close(ctx)
				return nil, err
			}
			userIDs = append(userIDs, row.ID)
			last = row.ID
			n++
		}
		if err := cur.Err(); err != nil {
			cur.Close(ctx)
			return nil, err
		}
		cur.Close(ctx)

		if int64(n) < pageSize {
			return userIDs, nil
		}
	}
}

// CountByClub returns the true count of membership documents for a club,
// optionally restricted to active+approved ones. Used by tests to measure
// member_count drift; the write paths never call this.
func (s *Store) CountByClub(ctx context.Context, clubID string, activeOnly bool) (int64, error) {
	filter := bson.M{"club_id": clubID}
	if activeOnly {
		filter["membership_status"] = models.MembershipActive
		filter["approval_status"] = models.ApprovalApproved
	}
	return s.c.CountDocuments(ctx, filter)
}
