// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	membershipstore "github.com/dalemusser/huntclub/internal/app/store/memberships"
	"github.com/dalemusser/huntclub/internal/app/system/claims"
	"github.com/dalemusser/huntclub/internal/app/system/identity"
	"github.com/dalemusser/huntclub/internal/app/system/indexes"
	"github.com/dalemusser/huntclub/internal/app/system/timeouts"
)

// ConnectDB establishes the MongoDB connection and builds the identity
// provider and claims synchronizer on top of it.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("ping MongoDB: %w", err)
	}
	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	idp, err := buildIdentityProvider(ctx, appCfg, logger)
	if err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, err
	}

	syncer := claims.NewSyncer(membershipstore.New(db), idp, logger,
		claims.Mode(appCfg.ClaimsSyncMode))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Identity:      idp,
		Syncer:        syncer,
	}, nil
}

func buildIdentityProvider(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (identity.Provider, error) {
	switch appCfg.IdentityProvider {
	case "firebase":
		p, err := identity.NewFirebaseProvider(ctx, appCfg.FirebaseProjectID, appCfg.FirebaseCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("init Firebase identity provider: %w", err)
		}
		logger.Info("using Firebase identity provider",
			zap.String("project_id", appCfg.FirebaseProjectID))
		return p, nil
	case "dev":
		logger.Warn("using in-memory dev identity provider; tokens are locally minted")
		return identity.NewDevProvider(appCfg.DevTokenSecret), nil
	default:
		return nil, fmt.Errorf("unknown identity_provider %q", appCfg.IdentityProvider)
	}
}

// EnsureSchema creates the indexes the stores and watcher rely on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Info("indexes ensured")
	return nil
}
