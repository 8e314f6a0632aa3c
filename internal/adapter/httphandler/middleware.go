package httphandler

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
)

type sessionCtxKey struct{}

// AllowJSON rejects request bodies that are not application/json.
func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			writeMessage(w, http.StatusUnsupportedMediaType, "invalid media type")
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// LogRequests logs one line per request at debug level.
func LogRequests(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start),
		)
	}
	return http.HandlerFunc(hf)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequireRole resolves the bearer token into a session and admits it only
// when its role is one of roles. The session is available to next through
// SessionFrom.
func RequireRole(
	sessions port.SessionManager, roles ...domain.Role,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hf := func(w http.ResponseWriter, r *http.Request) {
			const op = "httphandler.RequireRole"
			log := slog.With("op", op)

			token, ok := bearerToken(r)
			if !ok {
				writeMessage(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
				return
			}

			session, err := sessions.Session(r.Context(), token)
			if err != nil {
				writeError(w, log, err)
				return
			}

			if !slices.Contains(roles, session.Role) {
				writeMessage(w, http.StatusForbidden, domain.ErrForbidden.Error())
				return
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hf)
	}
}

// SessionFrom returns the session stored by RequireRole.
func SessionFrom(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(domain.Session)
	return s, ok
}

func bearerToken(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}
