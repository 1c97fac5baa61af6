package auth

import (
	"context"
	"time"
)

// Role decides which view a session may open.
type Role string

const (
	RolePatient   Role = "patient"
	RoleClinician Role = "clinician"
)

func (r Role) IsValid() bool {
	return r == RolePatient || r == RoleClinician
}

// Session is the explicit capability handed to the views: who is calling and
// in which role. It is never read from ambient state.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"userId"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionCtxKey struct{}

func ContextWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(Session)
	return s, ok
}
