// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/huntclub/internal/app/system/claims"
)

// appConfigKeys defines the configuration keys for HuntClub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, identity_provider, etc.
//   - Environment variables: HUNTCLUB_MONGO_URI, HUNTCLUB_IDENTITY_PROVIDER, etc.
//   - Command-line flags: --mongo_uri, --identity_provider, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "huntclub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Identity provider
	{Name: "identity_provider", Default: "firebase", Desc: "Identity provider backend: 'firebase' or 'dev'"},
	{Name: "firebase_project_id", Default: "", Desc: "Firebase project ID (identity_provider=firebase)"},
	{Name: "firebase_credentials_file", Default: "", Desc: "Path to a Firebase service-account key file (blank uses application default credentials)"},
	{Name: "dev_token_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "HS256 signing secret for dev tokens (identity_provider=dev)"},

	// Claims synchronization
	{Name: "claims_sync_mode", Default: "besteffort", Desc: "Concurrent claims recompute handling: 'besteffort' or 'serialized'"},
	{Name: "watch_memberships", Default: true, Desc: "Run the membership change-stream watcher (requires a replica set)"},

	// Background jobs
	{Name: "invite_expiry_interval", Default: "1h", Desc: "How often pending invites past their expiry are swept (e.g., 30m, 1h)"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the superadmin user (promoted on startup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, HUNTCLUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HUNTCLUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		IdentityProvider:        appValues.String("identity_provider"),
		FirebaseProjectID:       appValues.String("firebase_project_id"),
		FirebaseCredentialsFile: appValues.String("firebase_credentials_file"),
		DevTokenSecret:          appValues.String("dev_token_secret"),

		ClaimsSyncMode:   appValues.String("claims_sync_mode"),
		WatchMemberships: appValues.Bool("watch_memberships"),

		InviteExpiryInterval: appValues.Duration("invite_expiry_interval", time.Hour),

		SuperAdminEmail: appValues.String("superadmin_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// HuntClub validates the MongoDB URI format and the identity-provider
// selection to catch configuration errors before anything connects.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.IdentityProvider {
	case "firebase":
		if appCfg.FirebaseProjectID == "" {
			return fmt.Errorf("identity_provider 'firebase' requires firebase_project_id")
		}
	case "dev":
		if appCfg.DevTokenSecret == "" {
			return fmt.Errorf("identity_provider 'dev' requires dev_token_secret")
		}
	default:
		return fmt.Errorf("unknown identity_provider %q (want 'firebase' or 'dev')", appCfg.IdentityProvider)
	}

	switch claims.Mode(appCfg.ClaimsSyncMode) {
	case claims.ModeBestEffort, claims.ModeSerialized:
	default:
		return fmt.Errorf("unknown claims_sync_mode %q (want 'besteffort' or 'serialized')", appCfg.ClaimsSyncMode)
	}

	return nil
}
