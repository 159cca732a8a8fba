package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/shopfloor-tasks/internal"
	"github.com/frahmantamala/shopfloor-tasks/internal/auth"
	"github.com/frahmantamala/shopfloor-tasks/internal/core/common/validation"
)

type RepositoryAPI interface {
	LoadUsers(ctx context.Context) ([]*User, error)
}

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResult, error)
}

type Service struct {
	repo   RepositoryAPI
	tokens auth.TokenGenerator
	logger *slog.Logger
}

// NewService wires the directory. tokens may be nil, in which case logins carry no session token.
func NewService(repo RepositoryAPI, tokens auth.TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Login re-reads the users sheet and looks for a row with this exact username and password
// that is not marked inactive. Failure never says which part did not match.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	v := validation.NewValidator()
	v.Field("username", dto.Username).Required()
	v.Field("password", dto.Password).Required()
	if err := v.Validate(internal.ErrMissingCredentials); err != nil {
		return nil, err
	}

	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	var matched *User
	for _, u := range users {
		if u.Username != dto.Username {
			continue
		}
		if auth.VerifyPassword(u.Password, dto.Password) && u.IsActive() {
			matched = u
			break
		}
	}

	if matched == nil {
		s.logger.Info("login rejected", "username", dto.Username)
		return nil, internal.ErrBadCredentials
	}

	result := &LoginResult{
		Profile: Profile{
			Username:   dto.Username,
			Role:       matched.Role,
			Department: matched.Department,
		},
	}

	if s.tokens != nil {
		token, expiresAt, err := s.tokens.GenerateToken(matched.Identity(dto.Username))
		if err != nil {
			return nil, fmt.Errorf("failed to issue session token: %w", err)
		}
		result.Token = token
		result.ExpiresAt = expiresAt
	}

	s.logger.Info("login succeeded", "username", dto.Username, "role", matched.Role, "row", matched.Row)
	return result, nil
}
