package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/brk3/habiterm/internal/logger"
)

// tokenMiddleware requires "Authorization: Bearer <token>" on every request.
func tokenMiddleware(token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				logger.Warn("Rejected unauthenticated request", "method", r.Method, "path", r.URL.Path)
				authFailuresTotal.Inc()
				writeError(w, http.StatusUnauthorized, "authorization required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
