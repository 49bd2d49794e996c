// internal/common/utils/response.go
// Standardized API responses ensure consistency across all endpoints

package utils

import (
	"encoding/json"
	"net/http"

	"github.com/theloveculture/tlc-backend/internal/common/faults"
)

// Response is the standard API response structure
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Reason  string      `json:"reason,omitempty"`
}

// RespondWithJSON sends a JSON response with the specified status code and payload
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Error marshaling JSON"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithData sends a success response with data wrapped in a standard format
func RespondWithData(w http.ResponseWriter, code int, data interface{}) {
	RespondWithJSON(w, code, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response with the specified status code and message
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Response{
		Success: false,
		Error:   message,
	})
}

// RespondWithFault maps an engine error to an HTTP response carrying its
// machine-readable reason code.
func RespondWithFault(w http.ResponseWriter, err error) {
	kind, ok := faults.KindOf(err)
	if !ok {
		RespondWithError(w, http.StatusInternalServerError, "internal error")
		return
	}

	code := http.StatusInternalServerError
	switch kind {
	case faults.Validation:
		code = http.StatusBadRequest
	case faults.PolicyDenied:
		code = http.StatusForbidden
	case faults.StateConflict:
		code = http.StatusConflict
	case faults.Unauthorized:
		code = http.StatusForbidden
	case faults.DependencyUnavailable:
		code = http.StatusServiceUnavailable
	}

	RespondWithJSON(w, code, Response{
		Success: false,
		Error:   err.Error(),
		Reason:  faults.ReasonOf(err),
	})
}
