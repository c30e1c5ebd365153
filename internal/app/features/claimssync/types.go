// internal/app/features/claimssync/types.go
package claimssync

import "github.com/dalemusser/huntclub/internal/app/system/claims"

type syncUserRequest struct {
	TargetUserID string `json:"targetUserId"`
}

type syncUserResponse struct {
	Success   bool   `json:"success"`
	UserID    string `json:"userId"`
	ClubCount int    `json:"clubCount"`
	Message   string `json:"message"`
}

type syncAllResponse struct {
	Success      bool                `json:"success"`
	TotalUsers   int                 `json:"totalUsers"`
	SuccessCount int                 `json:"successCount"`
	ErrorCount   int                 `json:"errorCount"`
	Message      string              `json:"message"`
	Results      []claims.UserResult `json:"results"`
}
