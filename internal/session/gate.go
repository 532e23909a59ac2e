// Package session implements the dashboard's session gate: a two-state
// Anonymous/Authenticated flag persisted as a durable marker in a Store.
package session

import (
	"fmt"
	"log/slog"
)

const (
	MarkerKey   = "linkbot-admin-auth"
	MarkerValue = "true"
)

type Gate struct {
	auth   Authenticator
	logger *slog.Logger
}

func NewGate(auth Authenticator, logger *slog.Logger) *Gate {
	return &Gate{auth: auth, logger: logger}
}

// Load builds the per-client session from store. The marker is read here, so
// the state is settled before any handler looks at it. Only the exact marker
// value counts as authenticated.
func (g *Gate) Load(store Store) *Session {
	v, _ := store.Get(MarkerKey).(string)
	return &Session{
		gate:          g,
		store:         store,
		authenticated: v == MarkerValue,
	}
}

type Session struct {
	gate          *Gate
	store         Store
	authenticated bool
}

func (s *Session) IsAuthenticated() bool {
	return s.authenticated
}

// Login moves the session to Authenticated when the credentials match and
// persists the marker. A mismatch returns false and leaves the state as it
// was. The error reports only a failure to persist the marker; the session
// then stays Anonymous.
func (s *Session) Login(username, password string) (bool, error) {
	if !s.gate.auth.Authenticate(username, password) {
		s.gate.logger.Info("Login rejected", "username", username)
		return false, nil
	}

	s.store.Set(MarkerKey, MarkerValue)
	if err := s.store.Save(); err != nil {
		s.store.Delete(MarkerKey)
		return true, fmt.Errorf("persist session marker: %w", err)
	}
	s.authenticated = true
	s.gate.logger.Info("Login accepted", "username", username)
	return true, nil
}

// Logout always moves the session to Anonymous and removes the marker.
func (s *Session) Logout() error {
	s.authenticated = false
	s.store.Delete(MarkerKey)
	if err := s.store.Save(); err != nil {
		return fmt.Errorf("remove session marker: %w", err)
	}
	return nil
}
