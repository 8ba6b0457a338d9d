// Package session owns the authenticated state of the client: who is logged
// in, with what token, and for how long. All mutation goes through the three
// operations on Store; everything else observes snapshots.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/posguard/licadmin/internal/credstore"
	"github.com/posguard/licadmin/internal/domain"
	"github.com/posguard/licadmin/pkg/token"
)

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	Token         string
	User          *domain.User
	Authenticated bool
	// ExpiresAt is zero when the token carried no decodable expiry.
	ExpiresAt time.Time
}

// Store is the single authoritative holder of authentication state.
type Store struct {
	mu        sync.RWMutex
	snap      Snapshot
	listeners []func(Snapshot)

	creds  credstore.Store
	logger *slog.Logger
	now    func() time.Time
}

// New builds a Store and restores state from durable storage: a stored,
// unexpired token starts the session authenticated; anything else (absent,
// expired, unparsable) starts logged out.
func New(creds credstore.Store, logger *slog.Logger) *Store {
	s := &Store{
		creds:  creds,
		logger: logger,
		now:    time.Now,
	}
	s.restore()
	return s
}

func (s *Store) restore() {
	tok, err := s.creds.LoadToken()
	if err != nil {
		s.logger.Warn("could not read stored token", "error", err)
		return
	}
	if tok == "" || token.Expired(tok, s.now()) {
		return
	}

	user, err := s.creds.LoadUser()
	if err != nil {
		// Corrupt user data degrades to a nil user, not a failed start.
		s.logger.Warn("could not read stored user", "error", err)
		user = nil
	}

	exp, _ := token.ExpiresAt(tok)
	s.snap = Snapshot{
		Token:         tok,
		User:          user,
		Authenticated: true,
		ExpiresAt:     exp,
	}
}

// SetCredentials stores the token and user from a successful login and marks
// the session authenticated. Persistence is best-effort; a write failure only
// affects survival across restarts.
func (s *Store) SetCredentials(tok string, user *domain.User) {
	exp, _ := token.ExpiresAt(tok)

	s.mu.Lock()
	s.snap = Snapshot{
		Token:         tok,
		User:          user,
		Authenticated: true,
		ExpiresAt:     exp,
	}
	snap := s.snap
	s.mu.Unlock()

	if err := s.creds.SaveToken(tok); err != nil {
		s.logger.Warn("could not persist token", "error", err)
	}
	if err := s.creds.SaveUser(user); err != nil {
		s.logger.Warn("could not persist user", "error", err)
	}
	s.notify(snap)
}

// UpdateUser overwrites only the identity fields, used when a profile fetch
// returns data the login response omitted.
func (s *Store) UpdateUser(user *domain.User) {
	s.mu.Lock()
	s.snap.User = user
	snap := s.snap
	s.mu.Unlock()

	if err := s.creds.SaveUser(user); err != nil {
		s.logger.Warn("could not persist user", "error", err)
	}
	s.notify(snap)
}

// Logout clears the session and durable storage. Safe to call repeatedly;
// redundant detections of an ended session are harmless.
func (s *Store) Logout() {
	s.mu.Lock()
	wasEmpty := s.snap == (Snapshot{})
	s.snap = Snapshot{}
	s.mu.Unlock()

	if err := s.creds.Clear(); err != nil {
		s.logger.Warn("could not clear stored credentials", "error", err)
	}
	if !wasEmpty {
		s.notify(Snapshot{})
	}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Token returns the bearer token and whether one is present.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Token, s.snap.Token != ""
}

// Expired reports whether the current token should be treated as expired at
// now, using the cached expiry so the token is not re-decoded on every call.
// A token with no known expiry counts as expired, matching the codec.
func (s *Store) Expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap.Token == "" {
		return false
	}
	if s.snap.ExpiresAt.IsZero() {
		return true
	}
	return !now.Before(s.snap.ExpiresAt.Add(-token.Skew()))
}

// OnChange registers a listener called with a snapshot after every state
// change. Listeners run synchronously on the mutating goroutine.
func (s *Store) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notify(snap Snapshot) {
	s.mu.RLock()
	listeners := make([]func(Snapshot), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}
}
