// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	invitestore "github.com/dalemusser/huntclub/internal/app/store/invites"
	userstore "github.com/dalemusser/huntclub/internal/app/store/users"
	"github.com/dalemusser/huntclub/internal/app/system/tasks"
	"github.com/dalemusser/huntclub/internal/app/system/watcher"
)

// Background workers started here and stopped in Shutdown.
var (
	membershipWatcher *watcher.MembershipWatcher
	jobRunner         *tasks.Runner
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It
// promotes the configured super admin and starts the background workers:
// the membership change-stream watcher and the invite expiry sweep.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, deps, appCfg.SuperAdminEmail, logger); err != nil {
			return err
		}
	}

	if appCfg.WatchMemberships {
		membershipWatcher = watcher.NewMembershipWatcher(deps.MongoDatabase, deps.Syncer, logger)
		membershipWatcher.Start()
	} else {
		logger.Warn("membership watcher disabled; claims only change via the sync endpoints")
	}

	jobRunner = tasks.NewRunner(logger,
		tasks.InviteExpiryJob(invitestore.New(deps.MongoDatabase), appCfg.InviteExpiryInterval, logger))
	jobRunner.Start()

	return nil
}

// ensureSuperAdmin promotes the user with the configured email. A missing
// user is not an error: accounts are created on first sign-in, so the
// promotion simply waits for the next restart.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	err := userstore.New(deps.MongoDatabase).PromoteSuperAdmin(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		logger.Warn("superadmin user not found; will promote once the account exists",
			zap.String("email", email))
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("superadmin ensured", zap.String("email", email))
	return nil
}
