// internal/app/features/joinrequests/types.go
package joinrequests

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/huntclub/internal/domain/models"
)

type submitRequest struct {
	Message string `json:"message"`
}

type reviewRequest struct {
	Note string `json:"note"`
}

// result is the lifecycle-operation response shape shared by submit,
// approve, reject and cancel.
type result struct {
	Success bool                    `json:"success"`
	Error   string                  `json:"error,omitempty"`
	Request *models.ClubJoinRequest `json:"request,omitempty"`
}

func writeResult(w http.ResponseWriter, res result) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}
