// internal/app/system/claims/reconcile.go
package claims

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// UserResult reports the outcome of reconciling one user's claims.
type UserResult struct {
	UserID    string `json:"userId"`
	ClubCount int    `json:"clubCount"`
	Error     string `json:"error,omitempty"`
}

// BatchResult aggregates an all-users reconciliation run.
type BatchResult struct {
	TotalUsers   int          `json:"totalUsers"`
	SuccessCount int          `json:"successCount"`
	ErrorCount   int          `json:"errorCount"`
	Results      []UserResult `json:"results"`
}

// ReconcileUser forces a recomputation of one user's claims and returns the
// resulting active club count.
func (s *Syncer) ReconcileUser(ctx context.Context, userID string) (UserResult, error) {
	if err := s.Recompute(ctx, userID); err != nil {
		return UserResult{}, fmt.Errorf("recompute claims for %s: %w", userID, err)
	}
	clubIDs, err := s.memberships.ActiveClubIDs(ctx, userID)
	if err != nil {
		return UserResult{}, fmt.Errorf("count active clubs for %s: %w", userID, err)
	}
	return UserResult{UserID: userID, ClubCount: len(clubIDs)}, nil
}

// ReconcileAll recomputes claims for every user referenced by at least one
// membership document. Users with no memberships are never visited: their
// claim set could only be confirmed empty, so there is nothing to repair
// through this path.
//
// Errors are isolated per user. One failing user is recorded in its result
// entry and the batch continues.
func (s *Syncer) ReconcileAll(ctx context.Context) (BatchResult, error) {
	userIDs, err := s.memberships.UserIDs(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("scan membership users: %w", err)
	}

	res := BatchResult{
		TotalUsers: len(userIDs),
		Results:    make([]UserResult, 0, len(userIDs)),
	}

	for _, uid := range userIDs {
		if err := s.Recompute(ctx, uid); err != nil {
			s.log.Error("claims reconciliation failed for user",
				zap.String("user_id", uid), zap.Error(err))
			res.ErrorCount++
			res.Results = append(res.Results, UserResult{UserID: uid, Error: err.Error()})
			continue
		}

		clubIDs, err := s.memberships.ActiveClubIDs(ctx, uid)
		if err != nil {
			res.ErrorCount++
			res.Results = append(res.Results, UserResult{UserID: uid, Error: err.Error()})
			continue
		}

		res.SuccessCount++
		res.Results = append(res.Results, UserResult{UserID: uid, ClubCount: len(clubIDs)})
	}

	s.log.Info("claims reconciliation complete",
		zap.Int("total_users", res.TotalUsers),
		zap.Int("success_count", res.SuccessCount),
		zap.Int("error_count", res.ErrorCount))

	return res, nil
}
