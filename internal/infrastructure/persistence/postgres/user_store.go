package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
	"github.com/cpa-path/cpa-path-hub/internal/domain/user"
	"github.com/cpa-path/cpa-path-hub/pkg/logger"
)

// UserStore persists user records in the user_records table.
// It implements user.Repository.
type UserStore struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewUserStore runs the migration and returns the store.
func NewUserStore(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) (*UserStore, error) {
	if log == nil {
		log = logger.Default()
	}
	if err := Migrate(ctx, pool); err != nil {
		return nil, err
	}
	return &UserStore{pool: pool, log: log}, nil
}

// Load reads and decodes the learner's record.
func (s *UserStore) Load(ctx context.Context, userID string) (*user.UserData, error) {
	const query = `SELECT data FROM user_records WHERE user_id = $1`

	var raw []byte
	err := s.pool.QueryRow(ctx, query, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.WrapError("postgres", "Load", shared.ErrNotFound,
				fmt.Sprintf("no record for user %s", userID), err)
		}
		return nil, shared.WrapError("postgres", "Load", shared.ErrPersistence,
			"query user record", err)
	}

	var data user.UserData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, shared.WrapError("postgres", "Load", shared.ErrCorruptState,
			fmt.Sprintf("decode record for user %s", userID), err)
	}
	data.Normalize()

	return &data, nil
}

// Save upserts the learner's record.
func (s *UserStore) Save(ctx context.Context, userID string, data *user.UserData) error {
	const query = `
		INSERT INTO user_records (user_id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	raw, err := json.Marshal(data)
	if err != nil {
		return shared.WrapError("postgres", "Save", shared.ErrPersistence,
			fmt.Sprintf("encode record for user %s", userID), err)
	}

	if _, err := s.pool.Exec(ctx, query, userID, raw); err != nil {
		return shared.WrapError("postgres", "Save", shared.ErrPersistence,
			fmt.Sprintf("upsert record for user %s", userID), err)
	}

	return nil
}
