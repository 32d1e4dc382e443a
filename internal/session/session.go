package session

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/cinetalk/cinetalk/internal/services"
	"github.com/cinetalk/cinetalk/internal/shared"
)

// Snapshot is the session state as seen at one point in time.
//
// Ready distinguishes "not yet restored" from "restored and anonymous":
// guarded operations must not run before the first restore completes.
type Snapshot struct {
	Ready    bool
	LoggedIn bool
	Email    string
	Username string
}

// Store holds the current session and coordinates login, logout and the
// startup restore against the API and the token file.
type Store struct {
	users  *services.UserService
	tokens services.TokenStore
	logger *log.Logger

	mu       sync.Mutex
	ready    bool
	loggedIn bool
	email    string
	username string
}

// NewStore creates a session store. The store starts not ready; call
// [Store.Bootstrap] before any guarded operation.
func NewStore(users *services.UserService, tokens services.TokenStore, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{users: users, tokens: tokens, logger: logger}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Ready:    s.ready,
		LoggedIn: s.loggedIn,
		Email:    s.email,
		Username: s.username,
	}
}

// Bootstrap restores the session from the stored tokens.
//
// With no stored access token the store becomes ready and anonymous
// without a network call. A stored token is validated by fetching the
// profile; an expired or rejected session degrades to anonymous rather
// than failing, so startup never blocks on stale credentials. The store
// is ready once Bootstrap returns, whatever the outcome.
func (s *Store) Bootstrap(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.ready = true
		s.mu.Unlock()
	}()

	if s.tokens == nil || s.tokens.Access() == "" {
		return nil
	}

	profile, err := s.users.Profile(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrSessionExpired) || errors.Is(err, shared.ErrNotAuthenticated) {
			s.logger.Debug("stored session rejected, starting anonymous")
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.loggedIn = true
	s.email = profile.Email
	s.username = profile.Username
	s.mu.Unlock()
	return nil
}

// Login exchanges credentials for tokens, persists them, and resolves the
// profile. On failure nothing is stored.
func (s *Store) Login(ctx context.Context, email, password string) error {
	tokens, err := s.users.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.tokens.Save(tokens.Access, tokens.Refresh); err != nil {
		return err
	}

	profile, err := s.users.Profile(ctx)
	if err != nil {
		s.tokens.Clear()
		return err
	}

	s.mu.Lock()
	s.ready = true
	s.loggedIn = true
	s.email = profile.Email
	s.username = profile.Username
	s.mu.Unlock()
	return nil
}

// Register creates an account and immediately logs the new user in.
func (s *Store) Register(ctx context.Context, in services.RegisterInput) error {
	if err := s.users.Register(ctx, in); err != nil {
		return err
	}
	return s.Login(ctx, in.Email, in.Password)
}

// Logout clears the local session first, then notifies the server on a
// best-effort basis. The user is logged out even when the network call fails.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.loggedIn = false
	s.email = ""
	s.username = ""
	s.mu.Unlock()

	if err := s.users.Logout(ctx); err != nil {
		s.logger.Debug("server logout failed", "error", err)
	}
	if s.tokens != nil {
		if err := s.tokens.Clear(); err != nil {
			s.logger.Warn("failed to clear stored tokens", "error", err)
		}
	}
}

// Require gates operations that need an authenticated session.
//
// Before Bootstrap completes it returns ErrSessionNotReady so callers
// never mistake "still restoring" for "logged out". After that it returns
// ErrNotAuthenticated for anonymous sessions and nil for live ones.
func (s *Store) Require() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return shared.ErrSessionNotReady
	}
	if !s.loggedIn {
		return shared.ErrNotAuthenticated
	}
	return nil
}
