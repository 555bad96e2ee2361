// Package content implements the course material repository on top of a
// data directory: chapter_<n>/index.json for chapter documents,
// chapter_<n>/lesson_<id>.json for lessons and question_bank.json for the
// quiz bank. Chapter and lesson documents are served straight from disk;
// the chapters overview and the question bank are held in an immutable
// in-memory snapshot that Refresh swaps atomically.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	domain "github.com/cpa-path/cpa-path-hub/internal/domain/content"
	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
	"github.com/cpa-path/cpa-path-hub/pkg/logger"
)

const (
	courseTitle  = "CPA注册会计师考试-会计科目"
	maxChapters  = 30
	bankFileName = "question_bank.json"
)

// Config contains the content storage settings.
type Config struct {
	// DataDir is the root of the course material tree.
	DataDir string
}

// snapshot is one immutable view of the derived content. Readers always
// see a complete snapshot, never a half-reloaded one.
type snapshot struct {
	overview  *domain.ChaptersOverview
	questions []domain.Question
}

// Store serves course material from the data directory.
// It implements domain content.Repository.
type Store struct {
	dir  string
	log  *logger.Logger
	snap atomic.Pointer[snapshot]
}

// NewStore loads the initial snapshot and returns the store.
// Loading fails when the question bank is missing or malformed.
func NewStore(cfg Config, log *logger.Logger) (*Store, error) {
	if cfg.DataDir == "" {
		return nil, shared.NewDomainError("content", "NewStore",
			shared.ErrInvalidInput, "data directory is required")
	}
	if log == nil {
		log = logger.Default()
	}

	s := &Store{dir: cfg.DataDir, log: log}
	if err := s.Refresh(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// ChaptersOverview returns the course summary with the chapter list.
func (s *Store) ChaptersOverview(ctx context.Context) (*domain.ChaptersOverview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.snap.Load().overview, nil
}

// Chapter returns the raw chapter document.
func (s *Store) Chapter(ctx context.Context, chapterID string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validPathSegment(chapterID) {
		return nil, shared.ErrChapterNotFound
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, "chapter_"+chapterID, "index.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, shared.ErrChapterNotFound
		}
		return nil, shared.WrapError("content", "Chapter", shared.ErrPersistence,
			fmt.Sprintf("read chapter %s", chapterID), err)
	}
	return domain.Document(raw), nil
}

// Lesson returns the raw lesson document.
func (s *Store) Lesson(ctx context.Context, chapterID, lessonID string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validPathSegment(chapterID) || !validPathSegment(lessonID) {
		return nil, shared.ErrLessonNotFound
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, "chapter_"+chapterID, "lesson_"+lessonID+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, shared.ErrLessonNotFound
		}
		return nil, shared.WrapError("content", "Lesson", shared.ErrPersistence,
			fmt.Sprintf("read lesson %s/%s", chapterID, lessonID), err)
	}
	return domain.Document(raw), nil
}

// Questions returns the parsed question bank.
func (s *Store) Questions(ctx context.Context) ([]domain.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.snap.Load().questions, nil
}

// Refresh reloads the question bank and the chapter list from disk and
// swaps the snapshot in one step. On failure the previous snapshot stays
// in place.
func (s *Store) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	questions, err := s.loadQuestionBank()
	if err != nil {
		return err
	}

	overview, err := s.loadOverview()
	if err != nil {
		return err
	}

	s.snap.Store(&snapshot{overview: overview, questions: questions})

	s.log.Info("content snapshot refreshed",
		logger.Component("content"),
		logger.Int("chapters", len(overview.Chapters)),
		logger.Int("questions", len(questions)),
	)
	return nil
}

// chapterIndex mirrors the on-disk index.json envelope. Only the fields
// needed for the overview are typed.
type chapterIndex struct {
	Chapter struct {
		ChapterID  string `json:"chapter_id"`
		Title      string `json:"title"`
		TotalXP    int    `json:"total_xp"`
		ExamWeight string `json:"exam_weight"`
		Difficulty int    `json:"difficulty"`
	} `json:"chapter"`
}

// loadOverview scans chapter_1..chapter_30 and aggregates the course
// summary. Gaps in the numbering are skipped, not treated as errors.
func (s *Store) loadOverview() (*domain.ChaptersOverview, error) {
	chapters := make([]domain.ChapterSummary, 0, maxChapters)

	for i := 1; i <= maxChapters; i++ {
		chapterDir := filepath.Join(s.dir, fmt.Sprintf("chapter_%d", i))
		raw, err := os.ReadFile(filepath.Join(chapterDir, "index.json"))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, shared.WrapError("content", "Refresh", shared.ErrPersistence,
				fmt.Sprintf("read chapter %d index", i), err)
		}

		var idx chapterIndex
		if err := json.Unmarshal(raw, &idx); err != nil {
			return nil, shared.WrapError("content", "Refresh", shared.ErrInvalidFormat,
				fmt.Sprintf("decode chapter %d index", i), err)
		}

		summary := domain.ChapterSummary{
			ChapterID:    idx.Chapter.ChapterID,
			Title:        idx.Chapter.Title,
			LessonsCount: countLessonFiles(chapterDir),
			TotalXP:      idx.Chapter.TotalXP,
			ExamWeight:   idx.Chapter.ExamWeight,
			Difficulty:   idx.Chapter.Difficulty,
		}
		if summary.ChapterID == "" {
			summary.ChapterID = fmt.Sprintf("%d", i)
		}
		if summary.Title == "" {
			summary.Title = fmt.Sprintf("Chapter %d", i)
		}
		if summary.ExamWeight == "" {
			summary.ExamWeight = "约1分"
		}
		if summary.Difficulty == 0 {
			summary.Difficulty = 1
		}
		chapters = append(chapters, summary)
	}

	info := domain.CourseInfo{
		Title:         courseTitle,
		TotalChapters: len(chapters),
	}
	for _, ch := range chapters {
		info.TotalLessons += ch.LessonsCount
		info.TotalXP += ch.TotalXP
	}

	return &domain.ChaptersOverview{CourseInfo: info, Chapters: chapters}, nil
}

// loadQuestionBank reads, schema-validates and parses question_bank.json.
func (s *Store) loadQuestionBank() ([]domain.Question, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, bankFileName))
	if err != nil {
		return nil, shared.WrapError("content", "Refresh", shared.ErrBankUnavailable,
			"read question bank", err)
	}

	if err := validateQuestionBank(raw); err != nil {
		return nil, err
	}

	var bank struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, shared.WrapError("content", "Refresh", shared.ErrBankMalformed,
			"decode question bank", err)
	}

	questions := make([]domain.Question, 0, len(bank.Questions))
	for i, doc := range bank.Questions {
		var q domain.Question
		if err := json.Unmarshal(doc, &q); err != nil {
			return nil, shared.WrapError("content", "Refresh", shared.ErrBankMalformed,
				fmt.Sprintf("decode question %d", i), err)
		}
		q.Raw = doc
		questions = append(questions, q)
	}

	return questions, nil
}

// countLessonFiles counts lesson_*.json entries in a chapter directory.
func countLessonFiles(chapterDir string) int {
	entries, err := os.ReadDir(chapterDir)
	if err != nil {
		return 0
	}
	count := 0
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, "lesson_") && strings.HasSuffix(name, ".json") {
			count++
		}
	}
	return count
}

// validPathSegment rejects identifiers that could escape the data
// directory when joined into a path.
func validPathSegment(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
