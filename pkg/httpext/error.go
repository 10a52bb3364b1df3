// Package httpext holds the JSON response helpers shared by the API handlers.
package httpext

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrorResponse is the body of every API error. Retryable marks failures
// the client may resubmit unchanged, such as provider outages.
type ErrorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func JsonError(w http.ResponseWriter, message string, code int) {
	JsonErrorWithDetails(w, code, ErrorResponse{Error: message})
}

func JsonErrorWithDetails(w http.ResponseWriter, code int, resp ErrorResponse) {
	writeJSON(w, code, resp)
}

// JsonResponse writes v as the JSON body.
func JsonResponse(w http.ResponseWriter, code int, v any) {
	writeJSON(w, code, v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Int("status", code).Msg("Failed to encode response")
	}
}
