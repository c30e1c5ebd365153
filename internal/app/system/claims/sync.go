// internal/app/system/claims/sync.go
package claims

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/huntclub/internal/app/system/identity"
	"github.com/dalemusser/huntclub/internal/domain/models"
	"go.uber.org/zap"
)

// Mode selects how concurrent recomputations for the same user are handled.
type Mode string

const (
	// ModeBestEffort performs read-merge-write with no per-user
	// serialization. Two overlapping recomputations for one user can race
	// and the later claims write wins. This matches the original system's
	// behavior and is the default.
	ModeBestEffort Mode = "besteffort"

	// ModeSerialized takes a per-user mutex around each recomputation so
	// overlapping invocations for the same user run one at a time.
	ModeSerialized Mode = "serialized"
)

// MembershipSource supplies membership facts from the document store.
// Implemented by the club_memberships store.
type MembershipSource interface {
	// ActiveClubIDs returns the club IDs of every membership for userID
	// with membership_status=active and approval_status=approved.
	ActiveClubIDs(ctx context.Context, userID string) ([]string, error)

	// UserIDs returns the distinct user IDs referenced by any membership
	// document. Users with zero memberships are not listed.
	UserIDs(ctx context.Context) ([]string, error)
}

// Syncer derives a user's claimed club set from membership documents and
// pushes it into the identity provider.
type Syncer struct {
	memberships MembershipSource
	idp         identity.Provider
	log         *zap.Logger
	mode        Mode

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSyncer constructs a Syncer. mode defaults to ModeBestEffort when empty.
func NewSyncer(memberships MembershipSource, idp identity.Provider, logger *zap.Logger, mode Mode) *Syncer {
	if mode == "" {
		mode = ModeBestEffort
	}
	return &Syncer{
		memberships: memberships,
		idp:         idp,
		log:         logger,
		mode:        mode,
		locks:       make(map[string]*sync.Mutex),
	}
}

// Recompute rebuilds the clubIds claim for userID from membership documents.
//
// A missing identity account is not an error: membership bookkeeping can
// outlive the auth account, so the condition is logged and swallowed. Any
// other identity or store failure is returned.
func (s *Syncer) Recompute(ctx context.Context, userID string) error {
	if s.mode == ModeSerialized {
		lock := s.userLock(userID)
		lock.Lock()
		defer lock.Unlock()
	}
	return s.recompute(ctx, userID)
}

func (s *Syncer) recompute(ctx context.Context, userID string) error {
	clubIDs, err := s.memberships.ActiveClubIDs(ctx, userID)
	if err != nil {
		return err
	}

	acct, err := s.idp.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			s.log.Warn("skipping claims update for user without auth account",
				zap.String("user_id", userID))
			return nil
		}
		return err
	}

	if err := s.idp.SetCustomClaims(ctx, userID, Merge(acct.Claims, clubIDs)); err != nil {
		return err
	}

	s.log.Info("updated club claims",
		zap.String("user_id", userID),
		zap.Int("club_count", len(clubIDs)))
	return nil
}

// MembershipCreated handles a newly inserted membership document. Only a
// membership that is already active and approved affects the claim set;
// pending or rejected memberships are a no-op.
func (s *Syncer) MembershipCreated(ctx context.Context, m models.ClubMembership) error {
	s.log.Info("membership created",
		zap.String("membership_id", m.ID),
		zap.String("user_id", m.UserID),
		zap.String("club_id", m.ClubID),
		zap.String("membership_status", m.MembershipStatus),
		zap.String("approval_status", m.ApprovalStatus))

	if !m.Claimed() {
		return nil
	}
	return s.Recompute(ctx, m.UserID)
}

// MembershipUpdated handles a membership update. Claims are recomputed only
// when membership_status or approval_status changed; edits to fields like
// dues_status or timestamps must not trigger a recomputation.
func (s *Syncer) MembershipUpdated(ctx context.Context, before, after models.ClubMembership) error {
	statusChanged := before.MembershipStatus != after.MembershipStatus ||
		before.ApprovalStatus != after.ApprovalStatus
	if !statusChanged {
		return nil
	}

	s.log.Info("membership status changed",
		zap.String("membership_id", after.ID),
		zap.String("user_id", after.UserID),
		zap.String("membership_status", after.MembershipStatus),
		zap.String("approval_status", after.ApprovalStatus))

	return s.Recompute(ctx, after.UserID)
}

// MembershipDeleted handles a membership removal. Removal always recomputes:
// the deleted document could have been the one contributing its club ID.
func (s *Syncer) MembershipDeleted(ctx context.Context, m models.ClubMembership) error {
	s.log.Info("membership deleted",
		zap.String("membership_id", m.ID),
		zap.String("user_id", m.UserID),
		zap.String("club_id", m.ClubID))

	return s.Recompute(ctx, m.UserID)
}

func (s *Syncer) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}
