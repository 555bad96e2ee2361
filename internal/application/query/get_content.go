package query

import (
	"context"

	"github.com/cpa-path/cpa-path-hub/internal/domain/content"
)

// Тонкие запросы к хранилищу учебного материала. Логики здесь нет:
// ошибки NotFound поднимает само хранилище.

// GetChaptersHandler возвращает сводку курса со списком глав.
type GetChaptersHandler struct {
	repo content.Repository
}

// NewGetChaptersHandler создаёт новый GetChaptersHandler.
func NewGetChaptersHandler(repo content.Repository) *GetChaptersHandler {
	return &GetChaptersHandler{repo: repo}
}

// Handle выполняет запрос.
func (h *GetChaptersHandler) Handle(ctx context.Context) (*content.ChaptersOverview, error) {
	return h.repo.ChaptersOverview(ctx)
}

// GetChapterHandler возвращает документ одной главы.
type GetChapterHandler struct {
	repo content.Repository
}

// NewGetChapterHandler создаёт новый GetChapterHandler.
func NewGetChapterHandler(repo content.Repository) *GetChapterHandler {
	return &GetChapterHandler{repo: repo}
}

// Handle выполняет запрос.
func (h *GetChapterHandler) Handle(ctx context.Context, chapterID string) (content.Document, error) {
	return h.repo.Chapter(ctx, chapterID)
}

// GetLessonHandler возвращает документ одного урока.
type GetLessonHandler struct {
	repo content.Repository
}

// NewGetLessonHandler создаёт новый GetLessonHandler.
func NewGetLessonHandler(repo content.Repository) *GetLessonHandler {
	return &GetLessonHandler{repo: repo}
}

// Handle выполняет запрос.
func (h *GetLessonHandler) Handle(ctx context.Context, chapterID, lessonID string) (content.Document, error) {
	return h.repo.Lesson(ctx, chapterID, lessonID)
}
