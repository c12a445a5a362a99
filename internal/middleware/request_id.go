package middleware

import (
	"net/http"
	"strings"

	"github.com/baharkarakas/case-market/internal/logger"
)

const HeaderRequestID = "X-Request-Id"

// RequestID tags the request context with an id, reusing the caller's
// X-Request-Id when it sends one, and echoes it in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderRequestID))
		if id == "" || len(id) > 128 {
			id = logger.GenerateRequestID()
		}
		w.Header().Set(HeaderRequestID, id)
		ctx := logger.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
