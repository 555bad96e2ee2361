package content

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Контракт хранилища учебного материала. Реализация находится в
// infrastructure/content и читает материал с диска один раз при старте.
// Refresh заменяет снимок целиком: читатель видит либо старый, либо новый
// снимок, но никогда их смесь.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции чтения учебного материала.
type Repository interface {
	// ChaptersOverview возвращает сводку курса со списком глав.
	ChaptersOverview(ctx context.Context) (*ChaptersOverview, error)

	// Chapter возвращает документ главы.
	// Возвращает shared.ErrChapterNotFound для неизвестной главы.
	Chapter(ctx context.Context, chapterID string) (Document, error)

	// Lesson возвращает документ урока.
	// Возвращает shared.ErrLessonNotFound для неизвестного урока.
	Lesson(ctx context.Context, chapterID, lessonID string) (Document, error)

	// Questions возвращает снимок банка вопросов.
	Questions(ctx context.Context) ([]Question, error)

	// Refresh перечитывает материал с диска и атомарно подменяет снимок.
	Refresh(ctx context.Context) error
}
