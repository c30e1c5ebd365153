// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/dalemusser/huntclub/internal/app/system/auth"
	"github.com/dalemusser/huntclub/internal/app/system/timeouts"
	"github.com/dalemusser/huntclub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher, loading fresh user data on each
// request so super-admin grants and revocations apply immediately.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection(Collection)}
}

// FetchUser retrieves a user by identity-provider subject. Returns nil when
// the user record does not exist or the lookup fails; the caller falls back
// to the token's own claims.
func (f *Fetcher) FetchUser(ctx context.Context, uid string) *auth.AuthUser {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":            1,
		"email":          1,
		"display_name":   1,
		"is_super_admin": 1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": uid}, proj).Decode(&u); err != nil {
		return nil
	}

	return &auth.AuthUser{
		UID:          u.ID,
		Email:        u.Email,
		Name:         u.DisplayName,
		IsSuperAdmin: u.IsSuperAdmin,
	}
}
