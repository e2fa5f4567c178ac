package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
	"github.com/Shivanand-hulikatti/eventdesk/internal/storage"
)

// ErrPersist wraps storage failures in SetAuth and Logout. The in-memory
// session has already changed when it is returned.
var ErrPersist = errors.New("session: could not persist")

// HydrateResult says what Hydrate found in storage.
type HydrateResult int

const (
	// HydrateUnavailable means no storage is configured.
	HydrateUnavailable HydrateResult = iota
	// HydrateNoData means at least one key was absent; nothing changed.
	HydrateNoData
	// HydrateRestored means the session now holds the persisted values.
	HydrateRestored
	// HydrateCorrupt means the persisted user or the document holding it
	// was unreadable and both keys were removed.
	HydrateCorrupt
)

func (r HydrateResult) String() string {
	switch r {
	case HydrateNoData:
		return "no-data"
	case HydrateRestored:
		return "restored"
	case HydrateCorrupt:
		return "corrupt"
	default:
		return "unavailable"
	}
}

// Store owns the session for one process. Create it with NewStore, call
// Hydrate once at start-up, then read and write it through its methods.
type Store struct {
	mu      sync.RWMutex
	current Session
	backend storage.Storage
}

// NewStore returns an unauthenticated store persisting to backend. A nil
// backend keeps the session in memory only.
func NewStore(backend storage.Storage) *Store {
	return &Store{backend: backend}
}

// Current returns a copy of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cur := s.current
	if cur.User != nil {
		u := *cur.User
		cur.User = &u
	}
	return cur
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// User returns the logged-in user.
func (s *Store) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.User == nil {
		return model.User{}, false
	}
	return *s.current.User, true
}

// Authenticated reports whether a token and user are held.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.State() == Authenticated
}

func (s *Store) swap(next Session) {
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
}

// SetAuth replaces the session with token and user and persists both.
// A storage failure is reported wrapped in ErrPersist; the in-memory
// session is set regardless.
func (s *Store) SetAuth(ctx context.Context, token string, user model.User) error {
	next, err := Authenticate(token, user)
	if err != nil {
		return err
	}
	s.swap(next)

	if s.backend == nil {
		return nil
	}
	raw, err := encodeUser(user)
	if err != nil {
		return fmt.Errorf("%w: encode user: %v", ErrPersist, err)
	}
	if err := s.backend.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.backend.Set(ctx, UserKey, raw); err != nil {
		// Never leave a token persisted without its user.
		_ = s.backend.Remove(ctx, TokenKey)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// Logout clears the session and removes both persisted keys. Calling it on
// an empty session is harmless.
func (s *Store) Logout(ctx context.Context) error {
	s.swap(Cleared())
	if s.backend == nil {
		return nil
	}
	return s.clearPersisted(ctx)
}

func (s *Store) clearPersisted(ctx context.Context) error {
	errTok := s.backend.Remove(ctx, TokenKey)
	errUser := s.backend.Remove(ctx, UserKey)
	if err := errors.Join(errTok, errUser); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// Hydrate loads the persisted session. When either key is absent the
// session is left as it is. When the user payload or the storage document
// is corrupt both keys are removed and the session is cleared. The error
// result reports storage failures only.
func (s *Store) Hydrate(ctx context.Context) (HydrateResult, error) {
	if s.backend == nil {
		return HydrateUnavailable, nil
	}

	token, ok, err := s.backend.Get(ctx, TokenKey)
	if errors.Is(err, storage.ErrCorrupt) {
		return s.discard(ctx)
	}
	if err != nil {
		return HydrateNoData, fmt.Errorf("read %s: %w", TokenKey, err)
	}
	if !ok {
		return HydrateNoData, nil
	}
	rawUser, ok, err := s.backend.Get(ctx, UserKey)
	if errors.Is(err, storage.ErrCorrupt) {
		return s.discard(ctx)
	}
	if err != nil {
		return HydrateNoData, fmt.Errorf("read %s: %w", UserKey, err)
	}
	if !ok {
		return HydrateNoData, nil
	}

	next, err := Restore(token, rawUser)
	if err != nil {
		return s.discard(ctx)
	}
	s.swap(next)
	return HydrateRestored, nil
}

func (s *Store) discard(ctx context.Context) (HydrateResult, error) {
	s.swap(Cleared())
	if err := s.clearPersisted(ctx); err != nil {
		return HydrateCorrupt, err
	}
	return HydrateCorrupt, nil
}
