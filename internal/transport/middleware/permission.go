package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/shopfloor-tasks/internal"
	"github.com/frahmantamala/shopfloor-tasks/internal/auth"
	"github.com/frahmantamala/shopfloor-tasks/internal/transport"
	"github.com/frahmantamala/shopfloor-tasks/pkg/logger"
)

const RoleHeader = "x-role"

type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// RoleGate decides which requests may reach role-restricted routes. A bearer session token is
// verified when a validator is configured. Without one, the client-supplied x-role header is
// honoured only if trustHeader is set; that path is a routing gate, not authentication.
type RoleGate struct {
	*transport.BaseHandler
	tokens      TokenValidator
	trustHeader bool
}

func NewRoleGate(tokens TokenValidator, trustHeader bool, lg *slog.Logger) *RoleGate {
	return &RoleGate{
		BaseHandler: transport.NewBaseHandler(lg),
		tokens:      tokens,
		trustHeader: trustHeader,
	}
}

// RequireRole admits requests whose session role equals role (case-insensitive) and stores
// the session in the request context.
func (g *RoleGate) RequireRole(role string) func(http.Handler) http.Handler {
	required := strings.ToLower(role)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := g.session(r)
			if err != nil {
				g.WriteError(w, r, err)
				return
			}

			if session.Role != required {
				g.Logger.Warn("access denied: role mismatch",
					"required_role", required,
					"role", session.Role,
					"source", session.Source,
					"path", r.URL.Path)
				g.WriteError(w, r, internal.ErrForbiddenRole)
				return
			}

			ctx := internal.ContextWithSession(r.Context(), session)
			if session.Username != "" {
				ctx = logger.With(ctx, "username", session.Username)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (g *RoleGate) session(r *http.Request) (*internal.Session, error) {
	if token := transport.BearerToken(r); token != "" && g.tokens != nil {
		claims, err := g.tokens.ValidateToken(token)
		if err != nil {
			return nil, internal.ErrInvalidToken.WithCause(err)
		}
		return &internal.Session{
			Username:   claims.Username,
			Role:       strings.ToLower(claims.Role),
			Department: claims.Department,
			Source:     internal.SessionSourceToken,
		}, nil
	}

	if !g.trustHeader {
		return nil, internal.ErrForbiddenRole
	}

	return &internal.Session{
		Role:   strings.ToLower(r.Header.Get(RoleHeader)),
		Source: internal.SessionSourceHeader,
	}, nil
}
