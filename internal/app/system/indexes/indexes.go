// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	clubstore "github.com/dalemusser/huntclub/internal/app/store/clubs"
	invitestore "github.com/dalemusser/huntclub/internal/app/store/invites"
	joinrequeststore "github.com/dalemusser/huntclub/internal/app/store/joinrequests"
	membershipstore "github.com/dalemusser/huntclub/internal/app/store/memberships"
	userstore "github.com/dalemusser/huntclub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, userstore.Collection+": "+err.Error())
	}
	if err := ensureClubs(ctx, db); err != nil {
		problems = append(problems, clubstore.Collection+": "+err.Error())
	}
	if err := ensureMemberships(ctx, db); err != nil {
		problems = append(problems, membershipstore.Collection+": "+err.Error())
	}
	if err := ensureJoinRequests(ctx, db); err != nil {
		problems = append(problems, joinrequeststore.Collection+": "+err.Error())
	}
	if err := ensureInvites(ctx, db); err != nil {
		problems = append(problems, invitestore.Collection+": "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(userstore.Collection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
	})
	return err
}

func ensureClubs(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(clubstore.Collection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("uniq_name_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("owner"),
		},
	})
	return err
}

func ensureMemberships(ctx context.Context, db *mongo.Database) error {
	// The claims recompute query: user + both status fields.
	_, err := db.Collection(membershipstore.Collection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "membership_status", Value: 1},
				{Key: "approval_status", Value: 1},
			},
			Options: options.Index().SetName("user_status"),
		},
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}},
			Options: options.Index().SetName("club"),
		},
	})
	return err
}

func ensureJoinRequests(ctx context.Context, db *mongo.Database) error {
	// Pre-check lookup for pending duplicates. Deliberately NOT unique:
	// the duplicate-pending race is documented source behavior.
	_, err := db.Collection(joinrequeststore.Collection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "club_id", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("user_club_status"),
		},
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("club_status"),
		},
	})
	return err
}

func ensureInvites(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(invitestore.Collection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "invite_code", Value: 1}},
			Options: options.Index().SetName("uniq_invite_code").SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "email", Value: 1},
				{Key: "club_id", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("email_club_status"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("expires_at"),
		},
	})
	return err
}
