package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextSessionKey ctxKey = "session"

// Session is the caller identity attached to a request by the role middleware.
// Source tells whether it came from a verified token or from the x-role header.
type Session struct {
	Username   string `json:"username"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Source     string `json:"-"`
}

const (
	SessionSourceToken  = "token"
	SessionSourceHeader = "header"
)

func SessionFromContext(ctx context.Context) (*Session, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(ContextSessionKey).(*Session)
	return s, ok && s != nil
}

func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ContextSessionKey, s)
}

// WithTimeout returns a context with timeout, defaulting to 15 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 15 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
