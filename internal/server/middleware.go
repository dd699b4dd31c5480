package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// RequestIDFromContext returns the request ID assigned by the requestID
// middleware, or "" when none is set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID assigns each request a UUID, honoring a caller-provided
// X-Request-ID header, and echoes it back on the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// responseCapture records the status code written by downstream handlers.
type responseCapture struct {
	http.ResponseWriter
	status  int
	written bool
}

func (rc *responseCapture) WriteHeader(code int) {
	if !rc.written {
		rc.status = code
		rc.written = true
	}
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	if !rc.written {
		rc.status = http.StatusOK
		rc.written = true
	}
	return rc.ResponseWriter.Write(b)
}

func (rc *responseCapture) Unwrap() http.ResponseWriter {
	return rc.ResponseWriter
}

// accessLog writes one structured log line per request.
func accessLog(next http.Handler) http.Handler {
	log := zap.L().With(zap.String("component", "server.access"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rc := &responseCapture{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rc, r)

		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rc.status),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// recoverer turns handler panics into 500 responses. Outermost after
// requestID so the response still carries the ID.
func recoverer(next http.Handler) http.Handler {
	log := zap.L().With(zap.String("component", "server"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				log.Error("panic recovered",
					zap.String("path", r.URL.Path),
					zap.String("panic", fmt.Sprintf("%v", rv)),
					zap.ByteString("stack", debug.Stack()),
				)
				writeError(w, r, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// rateLimit rejects requests beyond the configured token-bucket rate.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
