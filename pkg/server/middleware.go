package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cellgate/cellgate/pkg/errors"
	"github.com/google/uuid"
)

// authHeaderPrefix is the scheme expected on the Authorization header,
// as in "Authorization: token <value>".
const authHeaderPrefix = "token "

// withMiddleware wraps a handler with the full middleware chain. The
// route argument is the registered mux pattern, used as the metrics
// label. Order matters: CORS headers sit outside rate limiting and auth
// so rejected requests still carry them, and logging runs innermost so
// it observes the final status.
func (s *Server) withMiddleware(route string, handler http.HandlerFunc) http.HandlerFunc {
	return s.metricsMiddleware(route,
		s.requestIDMiddleware(
			s.panicRecoveryMiddleware(
				s.corsMiddleware(
					s.rateLimitMiddleware(
						s.authMiddleware(
							s.loggingMiddleware(handler)))))))
}

// requestIDMiddleware ensures every request has a valid UUID request ID,
// propagated via context and echoed on the X-Request-Id response header.
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.New().String()
		} else if _, err := uuid.Parse(requestID); err != nil {
			// Replace malformed IDs rather than propagating junk
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		w.Header().Set("X-Request-Id", requestID)

		next(w, r.WithContext(ctx))
	}
}

// panicRecoveryMiddleware converts handler panics into JSON 500 responses.
func (s *Server) panicRecoveryMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				panicRecoveries.Inc()
				slog.Error("panic recovered in handler",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
				)
				WriteError(w, r, http.StatusInternalServerError,
					errors.ErrCodeInternal, "internal server error", true, nil)
			}
		}()

		next(w, r)
	}
}

// corsMiddleware injects the configured cross-origin headers and
// answers preflight OPTIONS requests with an empty 200 before auth or
// rate limiting run.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.config.CORS.apply(w.Header())

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// rateLimitMiddleware enforces the global token-bucket rate limit.
func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow() {
			rateLimitRejects.Inc()
			w.Header().Set("Retry-After", "1")
			WriteError(w, r, http.StatusTooManyRequests,
				errors.ErrCodeRateLimitExceeded, "rate limit exceeded", true,
				map[string]any{
					"limit": float64(s.config.RateLimit),
					"burst": s.config.RateLimitBurst,
				})
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(int(s.config.RateLimit)))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(s.rateLimiter.Tokens())))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

		next(w, r)
	}
}

// authMiddleware rejects requests that do not present the configured
// token, either as a ?token= query argument or on the Authorization
// header. Disabled when no token is configured. OPTIONS requests pass
// through so preflights never need credentials.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := s.config.AuthToken
		if token == "" || r.Method == http.MethodOptions {
			next(w, r)
			return
		}

		query := r.URL.Query()
		client := query.Get("token")
		if !query.Has("token") {
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, authHeaderPrefix) {
				client = strings.TrimPrefix(h, authHeaderPrefix)
			}
		}

		if client != token {
			authRejects.Inc()
			WriteError(w, r, http.StatusUnauthorized,
				errors.ErrCodeUnauthorized, "invalid or missing authorization token", false, nil)
			return
		}

		next(w, r)
	}
}

// loggingMiddleware logs request start and completion at debug level.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID, _ := r.Context().Value(contextKeyRequestID).(string)

		slog.Debug("request started",
			"requestId", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		wrapped := newResponseWriter(w)
		next(wrapped, r)

		slog.Debug("request completed",
			"requestId", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.Status(),
			"bytes", wrapped.Bytes(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
