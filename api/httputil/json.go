// Package httputil holds the JSON response helpers shared by the API
// handlers.
package httputil

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/evswap/core/planner"
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes data with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes msg as a JSON error body.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Error: msg})
}

// StatusFor maps planner errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrRouteUnavailable), errors.Is(err, planner.ErrSourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Authorized checks the bearer token. An empty token disables the check.
func Authorized(r *http.Request, token string) bool {
	if token == "" {
		return true
	}
	got := []byte(r.Header.Get("Authorization"))
	want := []byte("Bearer " + token)
	return subtle.ConstantTimeCompare(got, want) == 1
}
