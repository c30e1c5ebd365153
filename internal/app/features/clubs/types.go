// internal/app/features/clubs/types.go
package clubs

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/huntclub/internal/domain/models"
)

type createClubRequest struct {
	Name             string `json:"name"`
	IsPublic         bool   `json:"isPublic"`
	RequiresApproval bool   `json:"requiresApproval"`
	MaxMembers       int    `json:"maxMembers"`
}

// result is the lifecycle-operation response shape. Business failures are
// reported as success=false with a display-ready error string rather than
// an HTTP error status; clients branch on this shape.
type result struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Club    *models.Club `json:"club,omitempty"`
}

func writeResult(w http.ResponseWriter, res result) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}
