package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JakTech215/crm-app-sub000/internal/identity"
)

// UserIDHeader carries the acting user, set by the authenticating proxy.
const UserIDHeader = "X-User-ID"

// Identity copies the upstream user header into the request context.
// Requests without the header proceed anonymously; the header is trusted
// as-is because authentication happens before this service.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			slog.DebugContext(r.Context(), "request without user identity",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), userID)))
	})
}
