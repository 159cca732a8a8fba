package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator issues and verifies worker session tokens.
type TokenGenerator interface {
	GenerateToken(identity Identity) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Identity is what a session token asserts about its holder.
type Identity struct {
	Username   string
	Role       string
	Department string
}

// Claims represents JWT token claims
type Claims struct {
	Username   string `json:"username"`
	Role       string `json:"role"`
	Department string `json:"department"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{Username: c.Username, Role: c.Role, Department: c.Department}
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
	Issuer   string

	now func() time.Time
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
