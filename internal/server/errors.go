package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/goliatone/go-betterform/pkg/store"
)

// ErrBadRequest marks caller mistakes. Handlers wrap it with the message that
// should reach the client.
var ErrBadRequest = errors.New("bad request")

// StatusError pins an explicit status code and client message to an error.
type StatusError struct {
	Code       int
	Message    string
	Detail     string
	RegistryID string
	Err        error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return e.Err }

func badRequest(message string) error {
	return &StatusError{Code: http.StatusBadRequest, Message: message, Err: ErrBadRequest}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	RegistryID string `json:"registryId,omitempty"`
}

// statusFor maps an error onto a status code. fallback is the client message
// used for internal failures.
func statusFor(err error, fallback string) (int, errorBody) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, errorBody{Error: se.Message, Message: se.Detail, RegistryID: se.RegistryID}
	}
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, store.ErrInvalidID):
		return http.StatusBadRequest, errorBody{Error: "Invalid request", Message: err.Error()}
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, errorBody{Error: "Registry not found or expired"}
	case errors.Is(err, store.ErrExpired):
		return http.StatusGone, errorBody{Error: "Registry expired"}
	default:
		return http.StatusInternalServerError, errorBody{Error: fallback}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
