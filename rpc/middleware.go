package rpc

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"launchpool/observability"
	"launchpool/observability/logging"
)

type contextKey string

const contextKeyRequestID contextKey = "launch.requestId"

// RequestIDFromContext returns the request identifier assigned by the request
// ID middleware, or the empty string.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKeyRequestID, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			auth := "none"
			if r.Header.Get("Authorization") != "" {
				auth = logging.RedactedValue
			}
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.String("requestId", RequestIDFromContext(r.Context())),
				slog.Duration("duration", time.Since(start)),
				slog.String("authorization", auth),
			)
		})
	}
}

func metricsMiddleware(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			observability.ModuleMetrics().ObserveRequest(module, r.Method, time.Since(start))
			if rec.status >= http.StatusBadRequest {
				observability.ModuleMetrics().RecordError(module, r.Method)
			}
		})
	}
}

// clientLimiter keys token buckets by client address so one noisy caller
// cannot exhaust the budget of every other client.
type clientLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

func newClientLimiter(limit, burst int) *clientLimiter {
	if limit <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = limit
	}
	return &clientLimiter{
		limit:   rate.Limit(limit),
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}
}

func (c *clientLimiter) Allow(client string) bool {
	if c == nil {
		return true
	}
	c.mu.Lock()
	limiter, ok := c.clients[client]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.clients[client] = limiter
	}
	c.mu.Unlock()
	return limiter.Allow()
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func rateLimitMiddleware(limiter *clientLimiter, module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientKey(r)) {
				observability.ModuleMetrics().RecordThrottle(module)
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
