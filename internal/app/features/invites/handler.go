// internal/app/features/invites/handler.go

// Package invites implements the invite lifecycle: create and accept.
//
// Acceptance is the weaker join mechanism: it writes role and tier onto the
// invitee's user record but creates no membership document, so the claims
// watcher never sees it and the user's token claims do not change. The
// join-request path is the one that grants claimed membership.
package invites

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/huntclub/internal/app/policy/clubpolicy"
	invitestore "github.com/dalemusser/huntclub/internal/app/store/invites"
	userstore "github.com/dalemusser/huntclub/internal/app/store/users"
	"github.com/dalemusser/huntclub/internal/app/system/apierr"
	"github.com/dalemusser/huntclub/internal/app/system/authz"
	"github.com/dalemusser/huntclub/internal/app/system/timeouts"
	"github.com/dalemusser/huntclub/internal/domain/models"
)

// Handler is the feature-level entry point for invites.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs an invites handler bound to a DB and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// HandleCreate processes POST /clubs/{clubID}/invites. Club owners and
// managers only.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")

	uid, _, ok := authz.UserCtx(r)
	if !ok {
		apierr.Write(w, apierr.Unauthenticated, "Authentication required.")
		return
	}

	var req createInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.InvalidArgument, "Invalid request body.")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		apierr.Write(w, apierr.InvalidArgument, "A valid email address is required.")
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	switch role {
	case models.RoleManager, models.RoleMember:
	default:
		apierr.Write(w, apierr.InvalidArgument, "Invites can grant the member or manager role.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed, err := clubpolicy.CanManageClub(ctx, h.DB, r, clubID)
	if err != nil {
		h.internal(w, "invite policy check failed", clubID, err)
		return
	}
	if !allowed {
		apierr.Write(w, apierr.PermissionDenied, "Only club owners and managers can create invites.")
		return
	}

	store := invitestore.New(h.DB)
	pending, err := store.HasPending(ctx, req.Email, clubID)
	if err != nil {
		h.internal(w, "pending-invite check failed", clubID, err)
		return
	}
	if pending {
		writeResult(w, result{Success: false, Error: "A pending invite already exists for this email."})
		return
	}

	inv := models.Invite{
		ClubID:         clubID,
		Email:          req.Email,
		Role:           role,
		MembershipTier: req.MembershipTier,
		InvitedBy:      uid,
	}
	if req.ExpiresInHours > 0 {
		inv.ExpiresAt = time.Now().UTC().Add(time.Duration(req.ExpiresInHours) * time.Hour)
	}

	created, err := store.Create(ctx, inv)
	if err != nil {
		h.internal(w, "invite create failed", clubID, err)
		return
	}

	writeResult(w, result{Success: true, Invite: &created})
}

// HandleAccept processes POST /invites/accept.
//
// Redeeming an expired invite marks it expired before failing, so the
// periodic expiry job and the accept path converge on the same state.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	uid, email, ok := authz.UserCtx(r)
	if !ok {
		apierr.Write(w, apierr.Unauthenticated, "Authentication required.")
		return
	}

	var req acceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		apierr.Write(w, apierr.InvalidArgument, "An invite code is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := invitestore.New(h.DB)
	inv, err := store.GetByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, invitestore.ErrNotFound) {
			apierr.Write(w, apierr.NotFound, "Invite not found.")
			return
		}
		h.internal(w, "invite lookup failed", "", err)
		return
	}

	if inv.Status != models.InvitePending {
		apierr.Write(w, apierr.FailedPrecondition, "This invite is no longer redeemable.")
		return
	}
	if inv.Expired(time.Now().UTC()) {
		if err := store.SetStatus(ctx, inv.ID, models.InviteExpired); err != nil {
			h.Log.Warn("marking invite expired failed",
				zap.String("invite_id", inv.ID), zap.Error(err))
		}
		apierr.Write(w, apierr.FailedPrecondition, "This invite has expired.")
		return
	}
	if !strings.EqualFold(inv.Email, email) {
		apierr.Write(w, apierr.PermissionDenied, "This invite was issued to a different email address.")
		return
	}

	if err := store.SetStatus(ctx, inv.ID, models.InviteAccepted); err != nil {
		h.internal(w, "invite status update failed", inv.ClubID, err)
		return
	}

	// Role and tier land on the user record only. No membership document is
	// created here, so the accepted invite grants no claimed membership.
	if err := userstore.New(h.DB).ApplyInviteAcceptance(ctx, uid, inv.Role, inv.MembershipTier); err != nil {
		h.Log.Error("applying invite to user record failed",
			zap.String("invite_id", inv.ID), zap.String("user_id", uid), zap.Error(err))
		writeResult(w, result{Success: false, Error: "Invite was accepted but the profile update failed."})
		return
	}

	inv.Status = models.InviteAccepted
	writeResult(w, result{Success: true, Invite: inv})
}

func (h *Handler) internal(w http.ResponseWriter, msg, clubID string, err error) {
	h.Log.Error(msg, zap.String("club_id", clubID), zap.Error(err))
	apierr.Write(w, apierr.Internal, "Something went wrong. Please try again.")
}
