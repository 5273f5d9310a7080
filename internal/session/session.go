// Package session implements the dashboard's session gate: an in-memory
// token store whose markers expire 24 hours after login. Expired markers are
// cleared eagerly on the first check after expiry, never proactively.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"acgl-management-api/internal/model"
)

// DefaultTTL is how long a login remains valid. Expiry forces a full
// re-login; there is no token refresh.
const DefaultTTL = 24 * time.Hour

var (
	ErrNoSession = errors.New("no valid session")
)

// Marker is the stored proof of a completed login.
type Marker struct {
	Username  string     `json:"username"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// Store holds active session markers keyed by bearer token. Safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	markers map[string]Marker

	// now is swappable in tests
	now func() time.Time
}

// NewStore creates a session store. A non-positive ttl falls back to
// DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		markers: make(map[string]Marker),
		now:     time.Now,
	}
}

// Create issues a fresh token for a logged-in user.
func (s *Store) Create(username string, role model.Role) (string, Marker) {
	token := uuid.NewString()
	marker := Marker{
		Username:  username,
		Role:      role,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.markers[token] = marker
	s.mu.Unlock()

	return token, marker
}

// Check returns the marker for a token while it is still inside the TTL.
// An expired marker is removed on this first check and ErrNoSession is
// returned, as for an unknown token.
func (s *Store) Check(token string) (Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	marker, ok := s.markers[token]
	if !ok {
		return Marker{}, ErrNoSession
	}
	if s.now().Sub(marker.CreatedAt) >= s.ttl {
		delete(s.markers, token)
		return Marker{}, ErrNoSession
	}
	return marker, nil
}

// Clear removes a token on logout. Clearing an unknown token is a no-op.
func (s *Store) Clear(token string) {
	s.mu.Lock()
	delete(s.markers, token)
	s.mu.Unlock()
}
