package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
)

// payloadTooLargeJSON is pre-marshaled so the 413 can always be written.
const payloadTooLargeJSON = `{"error":{"code":"PAYLOAD_TOO_LARGE","message":"request body exceeds size limit","details":[]}}`

// MaxBodyBytes rejects request bodies larger than maxBytes with a 413.
//
// A declared Content-Length over the limit is rejected before reading.
// Otherwise the body is read through http.MaxBytesReader, which also
// catches chunked uploads and understated lengths, and then replayed to
// the next handler.
func MaxBodyBytes(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeTooLarge(w, r)
				return
			}

			buf, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
			if err != nil {
				slog.WarnContext(r.Context(), "request body size limit exceeded",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int64("content_length", r.ContentLength),
					slog.Int64("limit", maxBytes),
					slog.Any("error", err))
				writeTooLarge(w, r)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(buf))
			next.ServeHTTP(w, r)
		})
	}
}

func writeTooLarge(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusRequestEntityTooLarge)
	if _, err := w.Write([]byte(payloadTooLargeJSON)); err != nil {
		slog.ErrorContext(r.Context(), "failed to write payload too large response", slog.Any("error", err))
	}
}
