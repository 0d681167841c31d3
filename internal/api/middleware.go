package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/metropolia/infoscreen/internal/logging"
	"github.com/metropolia/infoscreen/internal/metrics"
	"github.com/metropolia/infoscreen/internal/utils"
)

// APIKeyHeader carries the static API key
const APIKeyHeader = "apikey"

// RequestIDHeader carries the request id
const RequestIDHeader = "X-Request-ID"

type contextKey string

const adminKey contextKey = "admin"

// RequestID tags every request with an id and a logger carrying it
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		logger := log.With().Str("request_id", utils.SanitizeLogString(requestID)).Logger()
		next.ServeHTTP(w, r.WithContext(logging.WithContext(r.Context(), &logger)))
	})
}

// Logger is a middleware that logs HTTP requests
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := newResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		logging.FromContext(r.Context()).Info().
			Str("method", r.Method).
			Str("path", utils.SanitizeLogString(r.URL.Path)).
			Int("status", wrapped.statusCode).
			Dur("duration", time.Since(start)).
			Str("ip", r.RemoteAddr).
			Msg("HTTP Request")
	})
}

// Recover is a middleware that recovers from panics
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logging.FromContext(r.Context()).Error().
					Interface("error", err).
					Str("stack", string(debug.Stack())).
					Str("method", r.Method).
					Str("path", utils.SanitizeLogString(r.URL.Path)).
					Msg("Panic recovered")

				writeError(w, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// Metrics records request counts and durations by route pattern
func Metrics(m *metrics.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			path := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			m.ObserveHTTPRequest(r.Method, path, wrapped.statusCode, time.Since(start))
		})
	}
}

// CORSHandler returns a configured CORS handler for chi
func CORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", APIKeyHeader, RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// APIKey rejects requests whose apikey header does not match key. With no
// key configured every request is refused.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				writeError(w, http.StatusServiceUnavailable, CodeNotConfigured, "API key not configured", nil)
				return
			}
			provided := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid API key", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminAuth requires an HS256 bearer token signed with secret whose subject
// is one of admins
func AdminAuth(secret string, admins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeError(w, http.StatusServiceUnavailable, CodeNotConfigured, "Admin authentication not configured", nil)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Missing authorization header", nil)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid authorization header format", nil)
				return
			}

			subject, err := parseAdminToken(parts[1], secret)
			if err != nil {
				message := "Invalid token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					message = "Token expired"
				}
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, message, nil)
				return
			}
			if !slices.Contains(admins, subject) {
				logging.FromContext(r.Context()).Warn().
					Str("subject", utils.SanitizeLogString(subject)).
					Msg("Non-admin token rejected")
				writeError(w, http.StatusForbidden, CodeForbidden, "Insufficient permissions", nil)
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromContext returns the authenticated admin subject
func AdminFromContext(ctx context.Context) string {
	if subject, ok := ctx.Value(adminKey).(string); ok {
		return subject
	}
	return ""
}

func parseAdminToken(tokenString, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.Subject, nil
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps event streams working through the wrapper
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
