package session

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator decides whether a username/password pair may open a session.
type Authenticator interface {
	Authenticate(username, password string) bool
}

// AuthenticatorFunc adapts a plain function to Authenticator.
type AuthenticatorFunc func(username, password string) bool

func (f AuthenticatorFunc) Authenticate(username, password string) bool {
	return f(username, password)
}

// StaticCredentials accepts exactly one plain-text pair.
type StaticCredentials struct {
	Username string
	Password string
}

func (s StaticCredentials) Authenticate(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) == 1
	return userOK && passOK && s.Username != ""
}

// DefaultCredentials is the fixed development pair. Production configuration
// never falls back to it.
func DefaultCredentials() StaticCredentials {
	return StaticCredentials{Username: "rednotsus", Password: "abc123"}
}

// HashedCredentials accepts one username whose password is checked against a
// bcrypt hash.
type HashedCredentials struct {
	Username     string
	PasswordHash string
}

func (h HashedCredentials) Authenticate(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(h.Username)) != 1 || h.Username == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h.PasswordHash), []byte(password)) == nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}
