package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/bodymeasures/internal/auth"
	"github.com/2beens/bodymeasures/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

const TokenHeader = "X-Session-Token"

type sessionGetter interface {
	Get(ctx context.Context, token string) (auth.Session, error)
}

type AuthMiddlewareHandler struct {
	sessions     sessionGetter
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(sessions sessionGetter) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		sessions: sessions,
		allowedPaths: map[string]bool{
			"/health":    true,
			"/reference": true,
		},
	}
}

// TokenFromRequest reads the session token from the custom header, falling
// back to a bearer Authorization header.
func TokenFromRequest(r *http.Request) string {
	if token := r.Header.Get(TokenHeader); token != "" {
		return token
	}
	authz := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authz, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// AuthCheck resolves the session token and stores the session in the request
// context. Public paths pass through untouched.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := TokenFromRequest(r)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			session, err := h.sessions.Get(ctx, authToken)
			if err != nil {
				if errors.Is(err, auth.ErrSessionNotFound) || errors.Is(err, auth.ErrSessionExpired) {
					log.Tracef("[invalid token] [auth middleware] unauthorized => %s: %s", r.URL.Path, err)
				} else {
					log.Errorf("[failed session check] => %s: %s", r.URL.Path, err)
				}
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "session-check-failed")
				span.RecordError(err)
				return
			}

			span.SetAttributes(
				attribute.String("session.user_id", session.UserID),
				attribute.String("session.role", string(session.Role)),
			)
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.ContextWithSession(ctx, session)))
		})
	}
}

// RequireRole rejects requests whose session (set by AuthCheck) is missing
// or has a different role.
func RequireRole(role auth.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			session, ok := auth.SessionFromContext(r.Context())
			if !ok {
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}
			if session.Role != role {
				log.Warnf("[role check] user %s with role %s tried %s %s", session.UserID, session.Role, r.Method, r.URL.Path)
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
