package query

import (
	"context"

	"github.com/cpa-path/cpa-path-hub/internal/application/progress"
	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
	"github.com/cpa-path/cpa-path-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROGRESS QUERY
// Возвращает историю обучения без каких-либо побочных эффектов.
// ══════════════════════════════════════════════════════════════════════════════

// GetProgressQuery содержит параметры запроса прогресса.
type GetProgressQuery struct {
	// UserID - токен учащегося.
	UserID string
}

// Validate проверяет корректность параметров.
func (q *GetProgressQuery) Validate() error {
	if q.UserID == "" {
		return shared.NewDomainError("query", "GetProgress",
			shared.ErrInvalidInput, "user_id is required")
	}
	return nil
}

// GetProgressHandler обрабатывает GetProgressQuery.
type GetProgressHandler struct {
	store *progress.Store
}

// NewGetProgressHandler создаёт новый GetProgressHandler.
func NewGetProgressHandler(store *progress.Store) *GetProgressHandler {
	return &GetProgressHandler{store: store}
}

// Handle выполняет запрос.
func (h *GetProgressHandler) Handle(ctx context.Context, q GetProgressQuery) (*user.ProgressRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	snap, err := h.store.With(ctx, q.UserID, func(d *user.UserData) (bool, error) {
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	record := snap.Progress
	return &record, nil
}
