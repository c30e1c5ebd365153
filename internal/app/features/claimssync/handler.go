// internal/app/features/claimssync/handler.go

// Package claimssync exposes the on-demand claims reconciliation operations.
// These are the repair/migration entry points; the normal path is the
// membership change-stream watcher.
package claimssync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dalemusser/huntclub/internal/app/policy/claimspolicy"
	"github.com/dalemusser/huntclub/internal/app/system/apierr"
	"github.com/dalemusser/huntclub/internal/app/system/authz"
	"github.com/dalemusser/huntclub/internal/app/system/claims"
	"github.com/dalemusser/huntclub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for claims sync.
type Handler struct {
	Syncer *claims.Syncer
	Log    *zap.Logger
}

// NewHandler constructs a claims-sync handler bound to a synchronizer.
func NewHandler(syncer *claims.Syncer, logger *zap.Logger) *Handler {
	return &Handler{Syncer: syncer, Log: logger}
}

// HandleSyncUser processes POST /sync/user.
//
// Body: {"targetUserId": "..."} — optional; defaults to the caller.
// Targeting another user requires super-admin privileges.
func (h *Handler) HandleSyncUser(w http.ResponseWriter, r *http.Request) {
	var req syncUserRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierr.Write(w, apierr.InvalidArgument, "Invalid request body.")
			return
		}
	}

	decision := claimspolicy.CanSyncUser(r, req.TargetUserID)
	if decision.Unauthenticated {
		apierr.Write(w, apierr.Unauthenticated, "Authentication required.")
		return
	}
	if !decision.Allowed {
		apierr.Write(w, apierr.PermissionDenied, "Only super admins can sync another user's claims.")
		return
	}

	target := req.TargetUserID
	if target == "" {
		uid, _, _ := authz.UserCtx(r)
		target = uid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Syncer.ReconcileUser(ctx, target)
	if err != nil {
		h.Log.Error("claims sync failed",
			zap.String("target_user_id", target), zap.Error(err))
		apierr.Write(w, apierr.Internal, "Failed to sync claims.")
		return
	}

	writeJSON(w, syncUserResponse{
		Success:   true,
		UserID:    res.UserID,
		ClubCount: res.ClubCount,
		Message:   fmt.Sprintf("Synced claims for %s (%d clubs).", res.UserID, res.ClubCount),
	})
}

// HandleSyncAll processes POST /sync/all. Super admin only.
func (h *Handler) HandleSyncAll(w http.ResponseWriter, r *http.Request) {
	decision := claimspolicy.CanSyncAll(r)
	if decision.Unauthenticated {
		apierr.Write(w, apierr.Unauthenticated, "Authentication required.")
		return
	}
	if !decision.Allowed {
		apierr.Write(w, apierr.PermissionDenied, "Only super admins can sync all claims.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	res, err := h.Syncer.ReconcileAll(ctx)
	if err != nil {
		h.Log.Error("all-users claims sync failed", zap.Error(err))
		apierr.Write(w, apierr.Internal, "Failed to sync claims.")
		return
	}

	writeJSON(w, syncAllResponse{
		Success:      true,
		TotalUsers:   res.TotalUsers,
		SuccessCount: res.SuccessCount,
		ErrorCount:   res.ErrorCount,
		Message: fmt.Sprintf("Synced claims for %d of %d users (%d errors).",
			res.SuccessCount, res.TotalUsers, res.ErrorCount),
		Results: res.Results,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
