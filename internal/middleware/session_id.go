package middleware

import (
	"net/http"
	"strings"

	"github.com/andreasstove999/artisan-marketplace/internal/session"
)

const HeaderSessionID = "X-Session-Id"

// SessionID copies the X-Session-Id header onto the request context so
// session.ContextProvider can find it. Requests without the header are
// left alone.
func SessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := strings.TrimSpace(r.Header.Get(HeaderSessionID))
		if sid == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithSessionID(r.Context(), sid)))
	})
}
