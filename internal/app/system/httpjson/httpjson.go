// Package httpjson holds the JSON read/write helpers shared by the API
// feature handlers, plus the mapping from expected domain failures to
// HTTP status codes.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies; the API only carries small documents.
const maxBodyBytes = 1 << 20

// Write serializes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// messageBody matches the original API's failure shape.
type messageBody struct {
	Message string `json:"message"`
}

// Error writes a {"message": ...} failure body with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, messageBody{Message: msg})
}

// Message writes a {"message": ...} success body with status 200.
func Message(w http.ResponseWriter, msg string) {
	Write(w, http.StatusOK, messageBody{Message: msg})
}

// ErrBadJSON is returned by Decode for unparseable or oversized bodies.
var ErrBadJSON = errors.New("invalid JSON body")

// Decode reads the request body into v. The body is size-capped and
// unknown fields are tolerated (clients send extra fields freely).
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return ErrBadJSON
	}
	return nil
}
