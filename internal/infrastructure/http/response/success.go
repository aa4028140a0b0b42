// Package response writes JSON bodies and maps errors to HTTP statuses.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// encodeFailureJSON is written when a body cannot be marshaled.
const encodeFailureJSON = `{"error":{"code":"INTERNAL_ERROR","message":"failed to encode response"}}`

// OK sends a 200 response with data as JSON.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, data)
}

// Created sends a 201 response with data as JSON.
func Created(w http.ResponseWriter, data any) {
	write(w, http.StatusCreated, data)
}

// NoContent sends a 204 with no body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// write marshals before touching the status line, so an encoding failure
// still produces a 500 instead of a truncated success.
func write(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(encodeFailureJSON))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write response", slog.Any("error", err))
	}
}
