// internal/app/system/apierr/apierr.go

// Package apierr renders callable-style structured errors:
//
//	{ "error": { "status": "PERMISSION_DENIED", "message": "..." } }
//
// Downstream clients branch on the status code string, so the set of codes
// here is part of the wire contract.
package apierr

import (
	"encoding/json"
	"net/http"
)

// Error status codes.
const (
	Unauthenticated    = "UNAUTHENTICATED"
	PermissionDenied   = "PERMISSION_DENIED"
	NotFound           = "NOT_FOUND"
	FailedPrecondition = "FAILED_PRECONDITION"
	InvalidArgument    = "INVALID_ARGUMENT"
	Internal           = "INTERNAL"
)

type body struct {
	Error payload `json:"error"`
}

type payload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// httpStatus maps a callable error code to its HTTP status.
func httpStatus(code string) int {
	switch code {
	case Unauthenticated:
		return http.StatusUnauthorized
	case PermissionDenied:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case FailedPrecondition:
		return http.StatusConflict
	case InvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Write renders a structured error with the HTTP status implied by code.
func Write(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(code))
	_ = json.NewEncoder(w).Encode(body{Error: payload{Status: code, Message: message}})
}
