package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// IsBcryptHash reports whether a stored password is a bcrypt digest ($2a$, $2b$, $2y$) whose
// header bcrypt can parse. A 60 character value with a bad cost field stays plaintext.
func IsBcryptHash(stored string) bool {
	if len(stored) != 60 {
		return false
	}
	if !strings.HasPrefix(stored, "$2a$") && !strings.HasPrefix(stored, "$2b$") && !strings.HasPrefix(stored, "$2y$") {
		return false
	}
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// VerifyPassword checks password against a stored sheet value. Bcrypt digests are verified
// with bcrypt; anything else must match exactly, compared in constant time.
func VerifyPassword(stored, password string) bool {
	if IsBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
