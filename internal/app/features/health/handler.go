package health

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ServiceName identifies this service in health responses.
const ServiceName = "huntclub-claims-sync"

// Handler serves the liveness probe.
type Handler struct {
	Log *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// Serve handles GET /health.
//
// Liveness only: no database round-trip, no business logic.
//
//	{ "status":"healthy", "timestamp":"…", "service":"huntclub-claims-sync" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   ServiceName,
	})
}
