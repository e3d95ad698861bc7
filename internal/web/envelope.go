package web

import (
	"encoding/json"
	"net/http"

	"github.com/evcraddock/comment-board/internal/comment"
)

// Envelope messages.
const (
	msgListOK        = "Comment list retrieved."
	msgCreateOK      = "Comment created."
	msgBadRequest    = "Bad request."
	msgServerError   = "A server error occurred."
	msgSaveError     = "An error occurred while saving the comment."
	msgNotAllowed    = "Method not allowed."
	msgNotFound      = "Not found."
	msgBodyNotJSON   = "request body must be valid JSON."
	msgBodyNotObject = "request body must be a JSON object."
	msgBodyTooLarge  = "request body is too large."
)

// envelope is the uniform response wrapper. Exactly one of Data, Errors
// or Error is set, depending on the outcome.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Errors  comment.FieldErrors `json:"errors,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// listData is the data payload of the list endpoint.
type listData struct {
	Count    int            `json:"count"`
	Comments []comment.View `json:"comments"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"success":false,"message":"encode failed"}`, http.StatusInternalServerError)
	}
}

func writeEnvelope(w http.ResponseWriter, env envelope, code int) {
	writeJSON(w, env, code)
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeEnvelope(w, envelope{Message: msgNotAllowed}, http.StatusMethodNotAllowed)
}
