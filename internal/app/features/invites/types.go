// internal/app/features/invites/types.go
package invites

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/huntclub/internal/domain/models"
)

type createInviteRequest struct {
	Email          string `json:"email"`
	Role           string `json:"role"`
	MembershipTier string `json:"membershipTier"`
	ExpiresInHours int    `json:"expiresInHours"`
}

type acceptInviteRequest struct {
	Code string `json:"code"`
}

// result is the lifecycle-operation response shape for invite operations.
type result struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Invite  *models.Invite `json:"invite,omitempty"`
}

func writeResult(w http.ResponseWriter, res result) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}
