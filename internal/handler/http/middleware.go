package httphandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

const (
	HeaderXRequestID = "X-Request-ID"
)

type requestIDKey struct{}

// RequestID tags every request with an id, reusing the caller's header
// when present, and logs one line per request.
func RequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(HeaderXRequestID, requestID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)

		log.Info("Request", slog.String("request_id", requestID),
			slog.String("method", r.Method), slog.String("url", r.URL.String()))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request id, empty when unset.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}

	return ""
}
