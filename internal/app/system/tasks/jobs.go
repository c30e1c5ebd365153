// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	invitestore "github.com/dalemusser/huntclub/internal/app/store/invites"
	"go.uber.org/zap"
)

// InviteExpiryJob creates a job that flips pending invites past their
// expiry to "expired". The accept path also expires lazily on redemption;
// this job just keeps the collection tidy between redemption attempts.
func InviteExpiryJob(invStore *invitestore.Store, interval time.Duration, logger *zap.Logger) Job {
	if interval <= 0 {
		interval = time.Hour
	}
	return Job{
		Name:     "invite-expiry",
		Interval: interval,
		Run: func(ctx context.Context) error {
			count, err := invStore.ExpirePending(ctx, time.Now().UTC())
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("expired stale invites", zap.Int64("count", count))
			}
			return nil
		},
	}
}
