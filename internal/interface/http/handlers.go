package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cpa-path/cpa-path-hub/internal/application/command"
	"github.com/cpa-path/cpa-path-hub/internal/application/query"
	"github.com/cpa-path/cpa-path-hub/internal/domain/content"
	"github.com/cpa-path/cpa-path-hub/pkg/logger"
)

const apiVersion = "1.0.0"

// maxBodyBytes caps request bodies; progress payloads are tiny.
const maxBodyBytes = 64 << 10

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "CPA_PATH API",
		"version": apiVersion,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(s.Uptime().Seconds()),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE MATERIAL
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetChapters(w http.ResponseWriter, r *http.Request) {
	overview, err := s.deps.GetChaptersHandler.Handle(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deps.GetChapterHandler.Handle(r.Context(), r.PathValue("chapterID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRawJSON(w, http.StatusOK, doc)
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deps.GetLessonHandler.Handle(r.Context(),
		r.PathValue("chapterID"), r.PathValue("lessonID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRawJSON(w, http.StatusOK, doc)
}

func (s *Server) handleGetQuestions(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(w, r)

	q := query.GetQuestionsQuery{
		UserID: userID,
		Filter: content.QuestionFilter{
			ChapterID:  getQueryParam(r, "chapter_id", ""),
			Type:       getQueryParam(r, "type", ""),
			Difficulty: getQueryParamInt(r, "difficulty", 0),
			WrongOnly:  getQueryParamBool(r, "wrong_only"),
		},
		Limit: getQueryParamInt(r, "limit", 0),
	}

	res, err := s.deps.GetQuestionsHandler.Handle(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ══════════════════════════════════════════════════════════════════════════════
// USER PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(w, r)

	profile, err := s.deps.GetProfileHandler.Handle(r.Context(), query.GetProfileQuery{UserID: userID})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(w, r)

	record, err := s.deps.GetProgressHandler.Handle(r.Context(), query.GetProgressQuery{UserID: userID})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// completeLessonRequest mirrors the frontend payload. Score and XP are
// optional; the command resolves their defaults.
type completeLessonRequest struct {
	LessonID string `json:"lesson_id"`
	Score    *int   `json:"score"`
	XPEarned *int   `json:"xp_earned"`
}

type completeLessonResponse struct {
	Success  bool `json:"success"`
	XPEarned int  `json:"xp_earned"`
	TotalXP  int  `json:"total_xp"`
	Streak   int  `json:"streak"`
}

func (s *Server) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(w, r)

	var req completeLessonRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.deps.CompleteLessonHandler.Handle(r.Context(), command.CompleteLessonCommand{
		UserID:   userID,
		LessonID: req.LessonID,
		Score:    req.Score,
		XPEarned: req.XPEarned,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, completeLessonResponse{
		Success:  true,
		XPEarned: res.XPEarned,
		TotalXP:  res.TotalXP,
		Streak:   res.Streak,
	})
}

type submitAnswerRequest struct {
	QuestionID string `json:"question_id"`
	IsCorrect  bool   `json:"is_correct"`
}

type submitAnswerResponse struct {
	Success bool `json:"success"`
	Lives   int  `json:"lives"`
	XP      int  `json:"xp"`
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(w, r)

	var req submitAnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.deps.SubmitAnswerHandler.Handle(r.Context(), command.SubmitAnswerCommand{
		UserID:     userID,
		QuestionID: req.QuestionID,
		IsCorrect:  req.IsCorrect,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submitAnswerResponse{
		Success: true,
		Lives:   res.Lives,
		XP:      res.XP,
	})
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(w, r)

	res, err := s.deps.ResetProgressHandler.Handle(r.Context(), command.ResetProgressCommand{UserID: userID})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRefreshData(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := s.deps.ContentRepo.Refresh(r.Context()); err != nil {
		s.logger.Error("content refresh failed", logger.Err(err))
		writeDomainError(w, err)
		return
	}

	s.logger.Info("content refreshed", logger.Latency(time.Since(start)))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Data refreshed from disk",
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST DECODING
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody decodes a JSON request body into dst. On failure it writes
// a 400 response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer io.Copy(io.Discard, r.Body)

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON request body")
		return false
	}
	return true
}
