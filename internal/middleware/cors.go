package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

const corsMaxAge = 10 * 60 // seconds

// CORS lets browser storefronts on the listed origins call the API. "*"
// alone allows any origin. Preflights are answered here and never reach
// the router.
func CORS(allowOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		allowed[strings.ToLower(strings.TrimSpace(o))] = true
	}
	anyOrigin := len(allowed) == 1 && allowed["*"]

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			h := w.Header()
			h.Add("Vary", "Origin")

			ok := origin != "" && (anyOrigin || allowed[strings.ToLower(origin)])
			if ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Expose-Headers", HeaderCorrelationID)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if ok {
					h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					h.Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderCorrelationID+", "+HeaderSessionID)
					h.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
