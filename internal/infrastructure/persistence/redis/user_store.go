// Package redis implements user record persistence on Redis.
// Records are stored as JSON strings without a TTL: progress must
// survive indefinitely, unlike a cache.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
	"github.com/cpa-path/cpa-path-hub/internal/domain/user"
	"github.com/cpa-path/cpa-path-hub/pkg/logger"
)

const keyPrefix = "user:"

// Config contains the Redis connection settings.
type Config struct {
	// Addr is host:port of the Redis server.
	Addr string

	// Password is optional.
	Password string

	// DB selects the logical database.
	DB int

	// DialTimeout bounds the initial connection.
	DialTimeout time.Duration

	// ReadTimeout and WriteTimeout bound individual commands.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the connection settings used when the
// environment leaves them unset.
func DefaultConfig(addr string) Config {
	return Config{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// UserStore persists user records under the "user:{id}" keys.
// It implements user.Repository.
type UserStore struct {
	client *redis.Client
	log    *logger.Logger
}

// NewUserStore opens the client and verifies connectivity with a ping.
func NewUserStore(ctx context.Context, cfg Config, log *logger.Logger) (*UserStore, error) {
	if cfg.Addr == "" {
		return nil, shared.NewDomainError("redis", "NewUserStore",
			shared.ErrInvalidInput, "redis address is required")
	}
	if log == nil {
		log = logger.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, shared.WrapError("redis", "NewUserStore", shared.ErrUnavailable,
			fmt.Sprintf("ping %s", cfg.Addr), err)
	}

	log.Info("redis storage ready", logger.Driver("redis"), logger.String("addr", cfg.Addr))

	return &UserStore{client: client, log: log}, nil
}

// Load reads and decodes the learner's record.
func (s *UserStore) Load(ctx context.Context, userID string) (*user.UserData, error) {
	raw, err := s.client.Get(ctx, keyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.WrapError("redis", "Load", shared.ErrNotFound,
				fmt.Sprintf("no record for user %s", userID), err)
		}
		return nil, shared.WrapError("redis", "Load", shared.ErrPersistence,
			"get user record", err)
	}

	var data user.UserData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, shared.WrapError("redis", "Load", shared.ErrCorruptState,
			fmt.Sprintf("decode record for user %s", userID), err)
	}
	data.Normalize()

	return &data, nil
}

// Save writes the learner's record. Records never expire.
func (s *UserStore) Save(ctx context.Context, userID string, data *user.UserData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return shared.WrapError("redis", "Save", shared.ErrPersistence,
			fmt.Sprintf("encode record for user %s", userID), err)
	}

	if err := s.client.Set(ctx, keyPrefix+userID, raw, 0).Err(); err != nil {
		return shared.WrapError("redis", "Save", shared.ErrPersistence,
			fmt.Sprintf("set record for user %s", userID), err)
	}

	return nil
}

// Close releases the underlying client.
func (s *UserStore) Close() error {
	return s.client.Close()
}
