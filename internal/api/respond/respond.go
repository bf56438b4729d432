// Package respond writes the JSON envelope shared by every API response:
// {success, message?, data?, errors?}.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response body")
	}
}

// Success writes a successful envelope with the given payload.
func Success(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope with an optional field-keyed error map.
func Fail(w http.ResponseWriter, status int, message string, errs interface{}) {
	write(w, status, Envelope{Success: false, Message: message, Errors: errs})
}

// InternalError masks an unexpected error behind a generic 500 response.
func InternalError(w http.ResponseWriter) {
	write(w, http.StatusInternalServerError, Envelope{Success: false, Message: "Internal server error"})
}
