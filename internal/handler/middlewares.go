package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jobportal-dev/job-portal/backend/internal/domain"
	"github.com/jobportal-dev/job-portal/backend/internal/policy"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("request handled", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // slog mangles multi-line stack traces
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// currentUser resolves the optional session cookie into the acting user. A
// missing, expired or otherwise invalid token means an anonymous request,
// not an error, so public views still work.
func (h *Handler) currentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		claims := &AuthClaims{}
		if _, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		}); err != nil {
			next.ServeHTTP(w, r)
			return
		}

		sub, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := h.repository.GetUserByID(sub)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				// The session outlived the account, e.g. after an admin
				// deleted the user. Treat as anonymous.
				next.ServeHTTP(w, r)
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), CurrentUserCtx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actorFromContext(r.Context()) == nil {
			h.deny(w, r, "/login", domain.Notice{Severity: domain.SeverityInfo, Message: "Please log in to continue."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authorize gates a route on the policy decision for action. A denied actor
// is redirected to the home view; notices, when given, are shown to them.
func (h *Handler) authorize(action policy.Action, notices ...domain.Notice) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := actorFromContext(r.Context())
			if !policy.Allowed(actor, action, policy.Resource{}) {
				h.deny(w, r, "/", notices...)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// jobRecord loads the job named by the {id} URL parameter into the request
// context. A missing job redirects rather than erroring.
func (h *Handler) jobRecord(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jobIDParam := chi.URLParam(r, "id")
		jobID, err := strconv.ParseInt(jobIDParam, 10, 64)
		if err != nil {
			h.deny(w, r, "/", domain.Notice{Severity: domain.SeverityWarning, Message: "Invalid job id."})
			return
		}

		job, err := h.repository.GetJobByID(jobID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.deny(w, r, "/", domain.Notice{Severity: domain.SeverityWarning, Message: "Job not found."})
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), JobCtx, job)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(CurrentUserCtx).(*domain.User)
	return user
}
