package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"ytharvest/pkg/logger"
)

type contextKey string

// RequestIDContextKey is the context key for the request ID
const RequestIDContextKey contextKey = "request_id"

// RequestID creates a middleware that adds a unique request ID to each request
func RequestID(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			r = r.WithContext(ctx)

			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r)
		})
	}
}

// GetRequestID returns the request ID stored in the context, empty when absent
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDContextKey).(string); ok {
		return id
	}
	return ""
}
