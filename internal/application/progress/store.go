// Package progress implements the per-user progress store: an in-memory,
// per-user-locked cache over a durable user.Repository with write-through
// persistence. It is the only component that creates or destroys UserData
// entries.
package progress

import (
	"context"
	"sync"

	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
	"github.com/cpa-path/cpa-path-hub/internal/domain/user"
	"github.com/cpa-path/cpa-path-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store owns the mapping from user id to that user's in-memory record.
//
// Concurrency model: the entries map is guarded by an RWMutex, each entry by
// its own mutex. Operations on the same user serialize on the entry lock for
// the whole load -> mutate -> persist sequence; operations on different users
// never contend beyond the brief map access.
type Store struct {
	repo user.Repository
	log  *logger.Logger

	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	data *user.UserData
}

// NewStore creates a Store on top of the given durable repository.
func NewStore(repo user.Repository, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Default()
	}
	return &Store{
		repo:    repo,
		log:     log.With(logger.Component("progress_store")),
		entries: make(map[string]*entry),
	}
}

// MutateFunc inspects and optionally mutates a user record under that user's
// lock. It reports whether the record was changed and must be persisted.
// Validation belongs before the mutation: a returned error means nothing was
// changed and nothing is saved.
type MutateFunc func(data *user.UserData) (dirty bool, err error)

// With runs fn against the user's record under the per-user lock, persisting
// the record when fn reports a change, and returns a deep snapshot of the
// record as it stands afterwards.
//
// A failed durable write is returned as a shared.ErrPersistence failure. The
// in-memory record keeps the mutation, so a caller retry re-persists it, but
// the caller must know the change may not survive a restart.
func (s *Store) With(ctx context.Context, userID string, fn MutateFunc) (*user.UserData, error) {
	if userID == "" {
		return nil, shared.ErrEmptyUserID
	}

	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := s.ensureLoaded(ctx, userID, e); err != nil {
		return nil, err
	}

	dirty, err := fn(e.data)
	if err != nil {
		return nil, err
	}

	if dirty {
		if err := s.repo.Save(ctx, userID, e.data); err != nil {
			s.log.Error("durable write failed", logger.UserID(userID), logger.Err(err))
			return e.data.Clone(), shared.WrapError("progress", "Save", shared.ErrSaveFailed,
				"durable write failed", err)
		}
	}

	return e.data.Clone(), nil
}

// View runs fn against the user's record without persisting anything.
func (s *Store) View(ctx context.Context, userID string, fn func(data *user.UserData)) error {
	_, err := s.With(ctx, userID, func(data *user.UserData) (bool, error) {
		fn(data)
		return false, nil
	})
	return err
}

// entryFor returns the cache entry for the user, creating it on first access.
func (s *Store) entryFor(userID string) *entry {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.entries[userID]; ok {
		return e
	}
	e = &entry{}
	s.entries[userID] = e
	return e
}

// ensureLoaded populates the entry from durable storage on first use.
// Caller holds the entry lock.
//
// A missing record becomes a fresh default. A corrupt record also becomes a
// fresh default and is persisted right away to heal the stored copy: the user
// loses history but regains a usable account. Any other load failure (for
// example an unreachable database) is propagated - defaulting there would
// overwrite good data on the next save.
func (s *Store) ensureLoaded(ctx context.Context, userID string, e *entry) error {
	if e.data != nil {
		return nil
	}

	data, err := s.repo.Load(ctx, userID)
	switch {
	case err == nil:
		data.Normalize()
		e.data = data
		return nil

	case shared.IsNotFound(err):
		e.data = user.NewUserData()
		return nil

	case shared.IsCorruptState(err):
		s.log.Warn("corrupt user record, substituting defaults",
			logger.UserID(userID), logger.Err(err))
		e.data = user.NewUserData()
		if saveErr := s.repo.Save(ctx, userID, e.data); saveErr != nil {
			s.log.Error("failed to heal corrupt record",
				logger.UserID(userID), logger.Err(saveErr))
		}
		return nil

	default:
		return shared.WrapError("progress", "Load", shared.ErrPersistence,
			"user record could not be read", err)
	}
}
