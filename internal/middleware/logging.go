package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-Id"

type requestIDCtxKey struct{}

// RequestIDFromContext returns the id assigned by LogRequest, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}

// LogRequest tags the request with an id (kept from the client when sent)
// and logs it on the way in and out.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			logger := log.WithFields(log.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			logger.WithField("ua", r.Header.Get("User-Agent")).Trace(" ====> request")

			resp := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(resp, r.WithContext(context.WithValue(r.Context(), requestIDCtxKey{}, requestID)))

			logger.WithFields(log.Fields{
				"status":   resp.statusCode,
				"duration": time.Since(start).String(),
			}).Debug(" <==== response")
		})
	}
}
