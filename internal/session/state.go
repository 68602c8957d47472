// Package session keeps the in-process view of who is logged in and owns the
// single operation that clears it.
package session

import (
	"sync"

	"github.com/vnshop/storefront/internal/domain"
)

// State is the observable authenticated identity.
// Authenticated is true exactly when a username is set.
type State struct {
	mu       sync.RWMutex
	username string
	roles    domain.RoleSet
}

// NewState returns an unauthenticated state.
func NewState() *State {
	return &State{}
}

// SetUserInfo records the identity. An empty username leaves the state unauthenticated.
func (s *State) SetUserInfo(username string, roles domain.RoleSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if username == "" {
		s.username, s.roles = "", nil
		return
	}
	s.username = username
	s.roles = append(domain.RoleSet(nil), roles...)
}

// ClearUserInfo resets to the unauthenticated state.
func (s *State) ClearUserInfo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username, s.roles = "", nil
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Session{
		Username:      s.username,
		Roles:         append(domain.RoleSet(nil), s.roles...),
		Authenticated: s.username != "",
	}
}

// IsLoggedIn reports whether an identity is recorded.
func (s *State) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username != ""
}
