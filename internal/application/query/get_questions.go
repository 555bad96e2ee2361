package query

import (
	"context"
	"math/rand"
	"time"

	"github.com/cpa-path/cpa-path-hub/internal/application/progress"
	"github.com/cpa-path/cpa-path-hub/internal/domain/content"
	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
	"github.com/cpa-path/cpa-path-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET QUESTIONS QUERY
// Собирает подборку вопросов для квиза: чистый фильтр над снимком банка,
// ограниченный прогрессом учащегося (завершённые уроки, ошибочные вопросы).
// Состояние учащегося не меняется.
// ══════════════════════════════════════════════════════════════════════════════

// GetQuestionsQuery содержит критерии выборки вопросов.
type GetQuestionsQuery struct {
	// UserID - токен учащегося.
	UserID string

	// Filter - критерии фильтрации банка.
	Filter content.QuestionFilter

	// Limit - максимум вопросов в ответе (0 = content.DefaultQuizSize).
	Limit int
}

// Validate проверяет корректность параметров и подставляет значения
// по умолчанию.
func (q *GetQuestionsQuery) Validate() error {
	if q.UserID == "" {
		return shared.NewDomainError("query", "GetQuestions",
			shared.ErrInvalidInput, "user_id is required")
	}
	if q.Filter.Difficulty < 0 {
		return shared.NewDomainError("query", "GetQuestions",
			shared.ErrValueOutOfRange, "difficulty must be non-negative")
	}
	if q.Limit <= 0 {
		q.Limit = content.DefaultQuizSize
	}
	return nil
}

// GetQuestionsResult - подборка вопросов плюс размер всей выборки
// до отрезания.
type GetQuestionsResult struct {
	Questions []content.Question `json:"questions"`
	Total     int                `json:"total"`
}

// GetQuestionsHandler обрабатывает GetQuestionsQuery.
type GetQuestionsHandler struct {
	contentRepo content.Repository
	store       *progress.Store
	newRNG      func() *rand.Rand
}

// NewGetQuestionsHandler создаёт новый GetQuestionsHandler.
// newRNG может быть nil - тогда каждый запрос получает генератор,
// засеянный текущим временем.
func NewGetQuestionsHandler(contentRepo content.Repository, store *progress.Store, newRNG func() *rand.Rand) *GetQuestionsHandler {
	if newRNG == nil {
		newRNG = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return &GetQuestionsHandler{contentRepo: contentRepo, store: store, newRNG: newRNG}
}

// Handle выполняет запрос.
func (h *GetQuestionsHandler) Handle(ctx context.Context, q GetQuestionsQuery) (*GetQuestionsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var completed, wrong map[string]struct{}
	err := h.store.View(ctx, q.UserID, func(d *user.UserData) {
		completed = d.Progress.CompletedLessonIDs()
		wrong = d.Progress.WrongQuestionIDs()
	})
	if err != nil {
		return nil, err
	}

	bank, err := h.contentRepo.Questions(ctx)
	if err != nil {
		return nil, err
	}

	filtered := content.FilterQuestions(bank, q.Filter, completed, wrong)
	picked := content.ShuffleAndCap(filtered, q.Limit, h.newRNG())

	return &GetQuestionsResult{
		Questions: picked,
		Total:     len(filtered),
	}, nil
}
