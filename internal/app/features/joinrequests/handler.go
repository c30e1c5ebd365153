// internal/app/features/joinrequests/handler.go

// Package joinrequests implements the join-request lifecycle: submit,
// approve, reject, cancel. Approval is the membership-creating path; the
// membership insert is what the claims watcher reacts to.
package joinrequests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/huntclub/internal/app/policy/clubpolicy"
	clubstore "github.com/dalemusser/huntclub/internal/app/store/clubs"
	joinrequeststore "github.com/dalemusser/huntclub/internal/app/store/joinrequests"
	membershipstore "github.com/dalemusser/huntclub/internal/app/store/memberships"
	userstore "github.com/dalemusser/huntclub/internal/app/store/users"
	"github.com/dalemusser/huntclub/internal/app/system/apierr"
	"github.com/dalemusser/huntclub/internal/app/system/authz"
	"github.com/dalemusser/huntclub/internal/app/system/timeouts"
	"github.com/dalemusser/huntclub/internal/domain/models"
)

// Handler is the feature-level entry point for join requests.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs a join-request handler bound to a DB and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// HandleSubmit processes POST /clubs/{clubID}/join-requests.
//
// The duplicate-request and already-a-member guards are pre-check queries,
// not unique constraints. Two concurrent submissions can both pass the
// checks and both insert; approval tolerates the duplicate.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")

	uid, _, ok := authz.UserCtx(r)
	if !ok {
		apierr.Write(w, apierr.Unauthenticated, "Authentication required.")
		return
	}

	var req submitRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierr.Write(w, apierr.InvalidArgument, "Invalid request body.")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := clubstore.New(h.DB).GetByID(ctx, clubID); err != nil {
		if errors.Is(err, clubstore.ErrNotFound) {
			writeResult(w, result{Success: false, Error: "Club not found."})
			return
		}
		h.internal(w, "club lookup failed", clubID, err)
		return
	}

	member, err := membershipstore.New(h.DB).Exists(ctx, clubID, uid)
	if err != nil {
		h.internal(w, "membership check failed", clubID, err)
		return
	}
	if member {
		writeResult(w, result{Success: false, Error: "You are already a member of this club."})
		return
	}

	pending, err := joinrequeststore.New(h.DB).HasPending(ctx, uid, clubID)
	if err != nil {
		h.internal(w, "pending-request check failed", clubID, err)
		return
	}
	if pending {
		writeResult(w, result{Success: false, Error: "You already have a pending request for this club."})
		return
	}

	created, err := joinrequeststore.New(h.DB).Create(ctx, models.ClubJoinRequest{
		UserID:  uid,
		ClubID:  clubID,
		Message: req.Message,
	})
	if err != nil {
		h.internal(w, "join-request create failed", clubID, err)
		return
	}

	writeResult(w, result{Success: true, Request: &created})
}

// HandleApprove processes POST /join-requests/{id}/approve.
//
// Approval performs four independent writes in order: request status,
// membership document, user club cache, club member count. There is no
// transaction. A failure partway leaves the earlier writes in place and is
// reported as a failure; re-running approval is how operators recover.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req reviewRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierr.Write(w, apierr.InvalidArgument, "Invalid request body.")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	jr, denied := h.loadForReview(ctx, w, r, id)
	if denied {
		return
	}
	if jr == nil {
		return
	}
	if jr.Status != models.JoinRequestPending {
		writeResult(w, result{Success: false, Error: "This request has already been reviewed."})
		return
	}

	uid, _, _ := authz.UserCtx(r)
	if err := joinrequeststore.New(h.DB).SetStatus(ctx, id, models.JoinRequestApproved, uid, req.Note); err != nil {
		h.internal(w, "join-request status update failed", jr.ClubID, err)
		return
	}

	_, err := membershipstore.New(h.DB).Create(ctx, models.ClubMembership{
		ClubID:           jr.ClubID,
		UserID:           jr.UserID,
		Role:             models.RoleMember,
		MembershipStatus: models.MembershipActive,
		ApprovalStatus:   models.ApprovalApproved,
	})
	if err != nil && !errors.Is(err, membershipstore.ErrDuplicateMembership) {
		h.Log.Error("membership create on approval failed",
			zap.String("request_id", id), zap.String("club_id", jr.ClubID),
			zap.String("user_id", jr.UserID), zap.Error(err))
		writeResult(w, result{Success: false, Error: "Request was approved but membership creation failed."})
		return
	}

	if err := userstore.New(h.DB).AppendClubID(ctx, jr.UserID, jr.ClubID); err != nil {
		h.Log.Warn("appending club to user record failed",
			zap.String("user_id", jr.UserID), zap.String("club_id", jr.ClubID), zap.Error(err))
	}
	if err := clubstore.New(h.DB).IncrementMemberCount(ctx, jr.ClubID); err != nil {
		h.Log.Warn("member count increment failed",
			zap.String("club_id", jr.ClubID), zap.Error(err))
	}

	writeResult(w, result{Success: true})
}

// HandleReject processes POST /join-requests/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req reviewRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierr.Write(w, apierr.InvalidArgument, "Invalid request body.")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	jr, denied := h.loadForReview(ctx, w, r, id)
	if denied || jr == nil {
		return
	}
	if jr.Status != models.JoinRequestPending {
		writeResult(w, result{Success: false, Error: "This request has already been reviewed."})
		return
	}

	uid, _, _ := authz.UserCtx(r)
	if err := joinrequeststore.New(h.DB).SetStatus(ctx, id, models.JoinRequestRejected, uid, req.Note); err != nil {
		h.internal(w, "join-request status update failed", jr.ClubID, err)
		return
	}

	writeResult(w, result{Success: true})
}

// HandleCancel processes POST /join-requests/{id}/cancel. Only the
// requester may cancel, and only while the request is still pending.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	uid, _, ok := authz.UserCtx(r)
	if !ok {
		apierr.Write(w, apierr.Unauthenticated, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	jr, err := joinrequeststore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, joinrequeststore.ErrNotFound) {
			apierr.Write(w, apierr.NotFound, "Join request not found.")
			return
		}
		h.internal(w, "join-request lookup failed", "", err)
		return
	}
	if jr.UserID != uid {
		apierr.Write(w, apierr.PermissionDenied, "Only the requester can cancel a join request.")
		return
	}
	if jr.Status != models.JoinRequestPending {
		writeResult(w, result{Success: false, Error: "This request has already been reviewed."})
		return
	}

	if err := joinrequeststore.New(h.DB).SetStatus(ctx, id, models.JoinRequestCancelled, "", ""); err != nil {
		h.internal(w, "join-request status update failed", jr.ClubID, err)
		return
	}

	writeResult(w, result{Success: true})
}

// loadForReview fetches the request and enforces the manage-club policy.
// It writes the error response itself; callers bail out when denied=true
// or jr==nil.
func (h *Handler) loadForReview(ctx context.Context, w http.ResponseWriter, r *http.Request, id string) (jr *models.ClubJoinRequest, denied bool) {
	if _, _, ok := authz.UserCtx(r); !ok {
		apierr.Write(w, apierr.Unauthenticated, "Authentication required.")
		return nil, true
	}

	jr, err := joinrequeststore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, joinrequeststore.ErrNotFound) {
			apierr.Write(w, apierr.NotFound, "Join request not found.")
		} else {
			h.internal(w, "join-request lookup failed", "", err)
		}
		return nil, false
	}

	allowed, err := clubpolicy.CanManageClub(ctx, h.DB, r, jr.ClubID)
	if err != nil {
		h.internal(w, "policy check failed", jr.ClubID, err)
		return nil, true
	}
	if !allowed {
		apierr.Write(w, apierr.PermissionDenied, "Only club owners and managers can review join requests.")
		return nil, true
	}
	return jr, false
}

func (h *Handler) internal(w http.ResponseWriter, msg, clubID string, err error) {
	h.Log.Error(msg, zap.String("club_id", clubID), zap.Error(err))
	apierr.Write(w, apierr.Internal, "Something went wrong. Please try again.")
}
