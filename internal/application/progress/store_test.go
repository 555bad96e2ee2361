package progress

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
	"github.com/cpa-path/cpa-path-hub/internal/domain/user"
	"github.com/cpa-path/cpa-path-hub/pkg/logger"
)

// fakeRepo is an in-memory user.Repository with failure injection.
type fakeRepo struct {
	mu      sync.Mutex
	records map[string]*user.UserData
	corrupt map[string]bool
	loadErr error
	saveErr error
	saves   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records: make(map[string]*user.UserData),
		corrupt: make(map[string]bool),
	}
}

func (r *fakeRepo) Load(ctx context.Context, userID string) (*user.UserData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.corrupt[userID] {
		return nil, shared.ErrRecordCorrupted
	}
	data, ok := r.records[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return data.Clone(), nil
}

func (r *fakeRepo) Save(ctx context.Context, userID string, data *user.UserData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	delete(r.corrupt, userID)
	r.records[userID] = data.Clone()
	return nil
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{Level: logger.LevelFatal})
}

func TestStore_LazyCreationForUnknownUser(t *testing.T) {
	store := NewStore(newFakeRepo(), quietLogger())

	snap, err := store.With(context.Background(), "u1", func(d *user.UserData) (bool, error) {
		return false, nil
	})

	require.NoError(t, err)
	assert.Equal(t, user.MaxLives, snap.Profile.Lives)
	assert.Equal(t, 0, snap.Profile.XP)
}

func TestStore_RejectsEmptyUserID(t *testing.T) {
	store := NewStore(newFakeRepo(), quietLogger())

	_, err := store.With(context.Background(), "", func(d *user.UserData) (bool, error) {
		return true, nil
	})

	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestStore_WriteThroughPersistsBeforeReturning(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo, quietLogger())

	_, err := store.With(context.Background(), "u1", func(d *user.UserData) (bool, error) {
		d.Profile.AddXP(20)
		return true, nil
	})
	require.NoError(t, err)

	// Simulate a restart: a fresh store must see the persisted mutation.
	restarted := NewStore(repo, quietLogger())
	var xp int
	require.NoError(t, restarted.View(context.Background(), "u1", func(d *user.UserData) {
		xp = d.Profile.XP
	}))
	assert.Equal(t, 20, xp)
}

func TestStore_CorruptRecordHealedWithDefaults(t *testing.T) {
	repo := newFakeRepo()
	repo.corrupt["u1"] = true
	store := NewStore(repo, quietLogger())

	snap, err := store.With(context.Background(), "u1", func(d *user.UserData) (bool, error) {
		return false, nil
	})

	require.NoError(t, err)
	assert.Equal(t, user.MaxLives, snap.Profile.Lives)

	// The defaulted record must have been re-persisted to heal storage.
	repo.mu.Lock()
	_, healed := repo.records["u1"]
	repo.mu.Unlock()
	assert.True(t, healed)
}

func TestStore_UnreachableStorageIsNotDefaulted(t *testing.T) {
	repo := newFakeRepo()
	repo.loadErr = errors.New("connection refused")
	store := NewStore(repo, quietLogger())

	_, err := store.With(context.Background(), "u1", func(d *user.UserData) (bool, error) {
		return false, nil
	})

	assert.ErrorIs(t, err, shared.ErrPersistence)
}

func TestStore_SaveFailureSurfacesButCacheKeepsMutation(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo, quietLogger())

	repo.saveErr = errors.New("disk full")
	snap, err := store.With(context.Background(), "u1", func(d *user.UserData) (bool, error) {
		d.Profile.AddXP(2)
		return true, nil
	})

	assert.ErrorIs(t, err, shared.ErrSaveFailed)
	assert.True(t, shared.IsPersistence(err), "save failures classify as persistence errors")
	require.NotNil(t, snap, "caller still gets the attempted state")
	assert.Equal(t, 2, snap.Profile.XP)

	// Caller retry: the in-memory mutation is re-persisted.
	repo.saveErr = nil
	snap, err = store.With(context.Background(), "u1", func(d *user.UserData) (bool, error) {
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Profile.XP)
}

func TestStore_FailedMutationIsNotSaved(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo, quietLogger())

	boom := errors.New("validation failed")
	_, err := store.With(context.Background(), "u1", func(d *user.UserData) (bool, error) {
		return false, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, repo.saves)
}

func TestStore_SnapshotIsDetachedFromCache(t *testing.T) {
	store := NewStore(newFakeRepo(), quietLogger())
	ctx := context.Background()

	snap, err := store.With(ctx, "u1", func(d *user.UserData) (bool, error) {
		d.Profile.AddXP(10)
		return true, nil
	})
	require.NoError(t, err)

	snap.Profile.XP = 999

	var xp int
	require.NoError(t, store.View(ctx, "u1", func(d *user.UserData) { xp = d.Profile.XP }))
	assert.Equal(t, 10, xp)
}

func TestStore_ConcurrentUsersAreIsolated(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo, quietLogger())
	ctx := context.Background()

	const perUser = 50
	var wg sync.WaitGroup
	for _, id := range []string{"alice", "bob"} {
		for i := 0; i < perUser; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := store.With(ctx, id, func(d *user.UserData) (bool, error) {
					d.Profile.AddXP(1)
					d.Progress.Statistics.TotalQuestionsAnswered++
					return true, nil
				})
				assert.NoError(t, err)
			}(id)
		}
	}
	wg.Wait()

	for _, id := range []string{"alice", "bob"} {
		var xp, answered int
		require.NoError(t, store.View(ctx, id, func(d *user.UserData) {
			xp = d.Profile.XP
			answered = d.Progress.Statistics.TotalQuestionsAnswered
		}))
		assert.Equal(t, perUser, xp, "user %s lost updates", id)
		assert.Equal(t, perUser, answered)
	}
}
