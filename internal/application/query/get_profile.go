// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"time"

	"github.com/cpa-path/cpa-path-hub/internal/application/progress"
	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
	"github.com/cpa-path/cpa-path-hub/internal/domain/user"
	"github.com/cpa-path/cpa-path-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROFILE QUERY
// Возвращает игровой профиль учащегося. Перед чтением применяется ленивое
// восстановление жизней; если оно что-то изменило, запись сохраняется -
// клиент никогда не видит состояние, которого нет на диске.
// ══════════════════════════════════════════════════════════════════════════════

// GetProfileQuery содержит параметры запроса профиля.
type GetProfileQuery struct {
	// UserID - токен учащегося.
	UserID string
}

// Validate проверяет корректность параметров.
func (q *GetProfileQuery) Validate() error {
	if q.UserID == "" {
		return shared.NewDomainError("query", "GetProfile",
			shared.ErrInvalidInput, "user_id is required")
	}
	return nil
}

// GetProfileHandler обрабатывает GetProfileQuery.
type GetProfileHandler struct {
	store *progress.Store
	log   *logger.Logger
	now   func() time.Time
}

// NewGetProfileHandler создаёт новый GetProfileHandler.
// now может быть nil - тогда используется time.Now.
func NewGetProfileHandler(store *progress.Store, log *logger.Logger, now func() time.Time) *GetProfileHandler {
	if log == nil {
		log = logger.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &GetProfileHandler{store: store, log: log, now: now}
}

// Handle выполняет запрос.
func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (*user.Profile, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	now := h.now()
	snap, err := h.store.With(ctx, q.UserID, func(d *user.UserData) (bool, error) {
		changed := user.RecoverHearts(&d.Profile, now)
		return changed, nil
	})
	if err != nil {
		return nil, err
	}

	profile := snap.Profile
	return &profile, nil
}
