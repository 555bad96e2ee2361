// Package content содержит доменную модель учебного материала: главы, уроки
// и банк вопросов. Материал только читается - меняется он исключительно
// целиком, через явную перезагрузку с диска.
package content

import (
	"encoding/json"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE & CHAPTERS
// ══════════════════════════════════════════════════════════════════════════════

// CourseInfo - сводка по всему курсу.
type CourseInfo struct {
	Title         string `json:"title"`
	TotalChapters int    `json:"total_chapters"`
	TotalLessons  int    `json:"total_lessons"`
	TotalXP       int    `json:"total_xp"`
}

// ChapterSummary - строка списка глав.
type ChapterSummary struct {
	ChapterID    string `json:"chapter_id"`
	Title        string `json:"title"`
	LessonsCount int    `json:"lessons_count"`
	TotalXP      int    `json:"total_xp"`
	ExamWeight   string `json:"exam_weight"`
	Difficulty   int    `json:"difficulty"`
}

// ChaptersOverview - ответ на запрос списка глав: курс плюс его главы.
type ChaptersOverview struct {
	CourseInfo CourseInfo       `json:"course_info"`
	Chapters   []ChapterSummary `json:"chapters"`
}

// Document - произвольный JSON-документ главы или урока. Детали глав и
// уроков отдаются клиенту в том виде, в котором лежат на диске: их
// структура принадлежит авторам контента, а не движку.
type Document = json.RawMessage

// ══════════════════════════════════════════════════════════════════════════════
// QUESTIONS
// ══════════════════════════════════════════════════════════════════════════════

// Question - один вопрос банка. Типизированы только поля, по которым
// движок фильтрует; полный документ сохраняется в Raw и отдаётся клиенту
// без изменений.
type Question struct {
	ID         string `json:"id"`
	ChapterID  string `json:"chapter_id"`
	Type       string `json:"type"`
	Difficulty int    `json:"difficulty"`

	Raw json.RawMessage `json:"-"`
}

// MarshalJSON отдаёт исходный документ вопроса, если он сохранён.
func (q Question) MarshalJSON() ([]byte, error) {
	if len(q.Raw) > 0 {
		return q.Raw, nil
	}
	type plain Question
	return json.Marshal(plain(q))
}

// LessonKey выводит ключ урока из идентификатора вопроса: префикс "ex_"
// убирается, последний сегмент "_<n>" (номер вопроса в уроке) отрезается.
// Например, "ex_1_2_3" принадлежит уроку "1_2".
func LessonKey(questionID string) string {
	key := strings.ReplaceAll(questionID, "ex_", "")
	if idx := strings.LastIndex(key, "_"); idx >= 0 {
		return key[:idx]
	}
	return key
}
