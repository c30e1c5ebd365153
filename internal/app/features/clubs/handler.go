// internal/app/features/clubs/handler.go

// Package clubs implements the club lifecycle write paths: create club and
// remove member. These handlers only write documents; claims updates flow
// from the membership change-stream watcher observing those writes.
package clubs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/huntclub/internal/app/policy/clubpolicy"
	clubstore "github.com/dalemusser/huntclub/internal/app/store/clubs"
	membershipstore "github.com/dalemusser/huntclub/internal/app/store/memberships"
	userstore "github.com/dalemusser/huntclub/internal/app/store/users"
	"github.com/dalemusser/huntclub/internal/app/system/apierr"
	"github.com/dalemusser/huntclub/internal/app/system/authz"
	"github.com/dalemusser/huntclub/internal/app/system/timeouts"
	"github.com/dalemusser/huntclub/internal/domain/models"
)

// Handler is the feature-level entry point for Clubs.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs a Clubs handler bound to a DB and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// HandleCreate processes POST /clubs.
//
// Creates the club document, then the caller's owner membership, then
// appends the club to the caller's cached club list. The three writes are
// sequential with no rollback: if a later write fails the club document
// remains, and the response reports the failure.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		apierr.Write(w, apierr.Unauthenticated, "Authentication required.")
		return
	}

	var req createClubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.InvalidArgument, "Invalid request body.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		apierr.Write(w, apierr.InvalidArgument, "Club name is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	club, err := clubstore.New(h.DB).Create(ctx, models.Club{
		Name:             req.Name,
		OwnerID:          uid,
		IsPublic:         req.IsPublic,
		RequiresApproval: req.RequiresApproval,
		MaxMembers:       req.MaxMembers,
	})
	if err != nil {
		if errors.Is(err, clubstore.ErrDuplicateClub) {
			writeResult(w, result{Success: false, Error: "A club with this name already exists."})
			return
		}
		h.Log.Error("club create failed", zap.String("name", req.Name), zap.Error(err))
		writeResult(w, result{Success: false, Error: "Failed to create club."})
		return
	}

	if _, err := membershipstore.New(h.DB).Create(ctx, models.ClubMembership{
		ClubID:           club.ID,
		UserID:           uid,
		Role:             models.RoleOwner,
		MembershipStatus: models.MembershipActive,
		ApprovalStatus:   models.ApprovalApproved,
	}); err != nil {
		h.Log.Error("owner membership create failed",
			zap.String("club_id", club.ID), zap.String("user_id", uid), zap.Error(err))
		writeResult(w, result{Success: false, Error: "Club was created but owner membership failed."})
		return
	}

	if err := userstore.New(h.DB).AppendClubID(ctx, uid, club.ID); err != nil {
		h.Log.Error("appending club to user record failed",
			zap.String("club_id", club.ID), zap.String("user_id", uid), zap.Error(err))
		writeResult(w, result{Success: false, Error: "Club was created but your profile update failed."})
		return
	}

	writeResult(w, result{Success: true, Club: &club})
}

// HandleRemoveMember processes DELETE /clubs/{clubID}/members/{userID}.
//
// Deletes the membership document. The watcher sees the delete and
// recomputes the removed user's claims. member_count is not decremented;
// the counter only ever goes up.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	userID := chi.URLParam(r, "userID")

	uid, _, ok := authz.UserCtx(r)
	if !ok {
		apierr.Write(w, apierr.Unauthenticated, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed, err := clubpolicy.CanManageClub(ctx, h.DB, r, clubID)
	if err != nil {
		h.Log.Error("remove-member policy check failed",
			zap.String("club_id", clubID), zap.Error(err))
		apierr.Write(w, apierr.Internal, "Failed to check permissions.")
		return
	}
	if !allowed && uid != userID {
		apierr.Write(w, apierr.PermissionDenied, "Only club owners and managers can remove members.")
		return
	}

	if err := membershipstore.New(h.DB).Delete(ctx, clubID, userID); err != nil {
		if errors.Is(err, membershipstore.ErrNotFound) {
			writeResult(w, result{Success: false, Error: "Membership not found."})
			return
		}
		h.Log.Error("membership delete failed",
			zap.String("club_id", clubID), zap.String("user_id", userID), zap.Error(err))
		writeResult(w, result{Success: false, Error: "Failed to remove member."})
		return
	}

	writeResult(w, result{Success: true})
}
