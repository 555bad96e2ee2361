// Package file implements user record persistence on the local filesystem.
// Each learner owns one pretty-printed JSON file, which keeps records
// inspectable and editable during development.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
	"github.com/cpa-path/cpa-path-hub/internal/domain/user"
	"github.com/cpa-path/cpa-path-hub/pkg/logger"
)

const (
	recordsSubdir  = "user_progress"
	filePrefix     = "user_"
	fileSuffix     = ".json"
	dirPermissions = 0o755
)

// Config contains the filesystem storage settings.
type Config struct {
	// DataDir is the root data directory. Records live in
	// DataDir/user_progress/.
	DataDir string
}

// UserStore persists user records as individual JSON files.
// It implements user.Repository.
type UserStore struct {
	dir string
	log *logger.Logger
}

// NewUserStore creates the records directory if needed and returns the store.
func NewUserStore(cfg Config, log *logger.Logger) (*UserStore, error) {
	if cfg.DataDir == "" {
		return nil, shared.NewDomainError("file", "NewUserStore",
			shared.ErrInvalidInput, "data directory is required")
	}
	if log == nil {
		log = logger.Default()
	}

	dir := filepath.Join(cfg.DataDir, recordsSubdir)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, shared.WrapError("file", "NewUserStore", shared.ErrPersistence,
			fmt.Sprintf("create records directory %s", dir), err)
	}

	log.Info("file storage ready", logger.Driver("file"), logger.String("dir", dir))

	return &UserStore{dir: dir, log: log}, nil
}

// Load reads and decodes the learner's record.
// Returns shared.ErrNotFound when no record exists yet and
// shared.ErrCorruptState when the file cannot be decoded.
func (s *UserStore) Load(ctx context.Context, userID string) (*user.UserData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path(userID)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, shared.WrapError("file", "Load", shared.ErrNotFound,
				fmt.Sprintf("no record for user %s", userID), err)
		}
		return nil, shared.WrapError("file", "Load", shared.ErrPersistence,
			fmt.Sprintf("read %s", path), err)
	}

	var data user.UserData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, shared.WrapError("file", "Load", shared.ErrCorruptState,
			fmt.Sprintf("decode %s", path), err)
	}
	data.Normalize()

	return &data, nil
}

// Save encodes the record and replaces the learner's file atomically:
// write to a temp file in the same directory, then rename over the target.
// A crash mid-write never leaves a half-written record behind.
func (s *UserStore) Save(ctx context.Context, userID string, data *user.UserData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return shared.WrapError("file", "Save", shared.ErrPersistence,
			fmt.Sprintf("encode record for user %s", userID), err)
	}

	path := s.path(userID)
	tmp, err := os.CreateTemp(s.dir, filePrefix+"*.tmp")
	if err != nil {
		return shared.WrapError("file", "Save", shared.ErrPersistence,
			"create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return shared.WrapError("file", "Save", shared.ErrPersistence,
			fmt.Sprintf("write %s", tmpName), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return shared.WrapError("file", "Save", shared.ErrPersistence,
			fmt.Sprintf("close %s", tmpName), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return shared.WrapError("file", "Save", shared.ErrPersistence,
			fmt.Sprintf("rename into %s", path), err)
	}

	return nil
}

// path maps a user id to its record file. The id is sanitized so that
// hostile values cannot escape the records directory.
func (s *UserStore) path(userID string) string {
	return filepath.Join(s.dir, filePrefix+sanitizeID(userID)+fileSuffix)
}

// sanitizeID keeps letters, digits, '-' and '_'; everything else
// becomes '_'.
func sanitizeID(userID string) string {
	var b strings.Builder
	b.Grow(len(userID))
	for _, r := range userID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
