package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"sepri/internal/auth"
	"sepri/internal/domain"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	claimsKey    ctxKey = "claims"
)

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (rr *responseRecorder) WriteHeader(status int) {
	rr.status = status
	rr.ResponseWriter.WriteHeader(status)
}

// requestIDMiddleware keeps an incoming X-Request-ID or mints one.
func (a *API) requestIDMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" || len(reqID) > 128 {
				reqID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", reqID)
			ctx := context.WithValue(r.Context(), requestIDKey, reqID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *API) loggingMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			a.logger.Info("http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", RequestIDFromContext(r.Context()),
			)
		})
	}
}

func (a *API) requireRole(roles ...domain.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := a.authorize(w, r, roles...)
			if !ok {
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authorize checks the bearer token and writes the 401 or 403 itself.
func (a *API) authorize(w http.ResponseWriter, r *http.Request, roles ...domain.Role) (*auth.Claims, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		respondError(w, http.StatusUnauthorized, "missing bearer token")
		return nil, false
	}

	claims, err := a.tokens.Parse(token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid or expired token")
		return nil, false
	}

	for _, role := range roles {
		if claims.Role == role {
			return claims, true
		}
	}

	a.logger.Warn("forbidden",
		"role", claims.Role,
		"path", r.URL.Path,
		"request_id", RequestIDFromContext(r.Context()),
	)
	respondError(w, http.StatusForbidden, "forbidden")
	return nil, false
}
