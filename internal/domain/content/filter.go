package content

import (
	"math/rand"
)

// ══════════════════════════════════════════════════════════════════════════════
// QUESTION FILTERING
// Чистый запрос над снимком банка: состояния не меняет, от прогресса
// учащегося получает только множества завершённых уроков и ошибочных
// вопросов.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultQuizSize - максимум вопросов, отдаваемых за один запрос.
const DefaultQuizSize = 20

// QuestionFilter описывает критерии выборки вопросов.
type QuestionFilter struct {
	// ChapterID ограничивает выборку одной главой (пусто = все главы).
	ChapterID string

	// Type ограничивает выборку типом вопроса (пусто = все типы).
	Type string

	// Difficulty ограничивает выборку сложностью (0 = любая).
	Difficulty int

	// WrongOnly оставляет только вопросы, на которые учащийся уже
	// отвечал неправильно.
	WrongOnly bool
}

// FilterQuestions применяет фильтр к снимку банка.
//
// Если у учащегося есть завершённые уроки, выборка ограничивается их
// вопросами; у нового учащегося без завершённых уроков доступен весь банк.
func FilterQuestions(
	questions []Question,
	filter QuestionFilter,
	completedLessons map[string]struct{},
	wrongQuestions map[string]struct{},
) []Question {
	result := make([]Question, 0, len(questions))

	for _, q := range questions {
		if len(completedLessons) > 0 {
			if _, ok := completedLessons[LessonKey(q.ID)]; !ok {
				continue
			}
		}
		if filter.WrongOnly {
			if _, ok := wrongQuestions[q.ID]; !ok {
				continue
			}
		}
		if filter.ChapterID != "" && q.ChapterID != filter.ChapterID {
			continue
		}
		if filter.Type != "" && q.Type != filter.Type {
			continue
		}
		if filter.Difficulty != 0 && q.Difficulty != filter.Difficulty {
			continue
		}
		result = append(result, q)
	}

	return result
}

// ShuffleAndCap перемешивает вопросы и отрезает первые limit. Источник
// случайности передаётся явно, чтобы тесты были детерминированными.
func ShuffleAndCap(questions []Question, limit int, rng *rand.Rand) []Question {
	shuffled := make([]Question, len(questions))
	copy(shuffled, questions)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if limit > 0 && len(shuffled) > limit {
		shuffled = shuffled[:limit]
	}
	return shuffled
}
