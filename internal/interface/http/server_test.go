package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpa-path/cpa-path-hub/internal/application/command"
	"github.com/cpa-path/cpa-path-hub/internal/application/progress"
	"github.com/cpa-path/cpa-path-hub/internal/application/query"
	"github.com/cpa-path/cpa-path-hub/internal/domain/content"
	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
	"github.com/cpa-path/cpa-path-hub/internal/domain/user"
	"github.com/cpa-path/cpa-path-hub/pkg/logger"
)

type memRepo struct {
	mu      sync.Mutex
	records map[string]*user.UserData
}

func (r *memRepo) Load(ctx context.Context, userID string) (*user.UserData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.records[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return data.Clone(), nil
}

func (r *memRepo) Save(ctx context.Context, userID string, data *user.UserData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[userID] = data.Clone()
	return nil
}

type fakeContentRepo struct {
	questions  []content.Question
	refreshErr error
	refreshed  int
}

func (f *fakeContentRepo) ChaptersOverview(ctx context.Context) (*content.ChaptersOverview, error) {
	return &content.ChaptersOverview{
		CourseInfo: content.CourseInfo{Title: "CPA注册会计师考试-会计科目", TotalChapters: 1},
		Chapters:   []content.ChapterSummary{{ChapterID: "1", Title: "会计概述"}},
	}, nil
}

func (f *fakeContentRepo) Chapter(ctx context.Context, chapterID string) (content.Document, error) {
	if chapterID != "1" {
		return nil, shared.ErrChapterNotFound
	}
	return content.Document(`{"chapter":{"chapter_id":"1"}}`), nil
}

func (f *fakeContentRepo) Lesson(ctx context.Context, chapterID, lessonID string) (content.Document, error) {
	if chapterID != "1" || lessonID != "1_1" {
		return nil, shared.ErrLessonNotFound
	}
	return content.Document(`{"lesson_id":"1_1"}`), nil
}

func (f *fakeContentRepo) Questions(ctx context.Context) ([]content.Question, error) {
	return f.questions, nil
}

func (f *fakeContentRepo) Refresh(ctx context.Context) error {
	f.refreshed++
	return f.refreshErr
}

func newTestServer(t *testing.T) (*Server, *fakeContentRepo) {
	t.Helper()

	log := logger.New(logger.Options{Level: logger.LevelFatal})
	store := progress.NewStore(&memRepo{records: make(map[string]*user.UserData)}, log)
	contentRepo := &fakeContentRepo{
		questions: []content.Question{
			{ID: "ex_1_1_1", ChapterID: "1", Type: "single_choice", Difficulty: 1,
				Raw: json.RawMessage(`{"id":"ex_1_1_1"}`)},
		},
	}

	now := func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	deps := Dependencies{
		GetChaptersHandler:    query.NewGetChaptersHandler(contentRepo),
		GetChapterHandler:     query.NewGetChapterHandler(contentRepo),
		GetLessonHandler:      query.NewGetLessonHandler(contentRepo),
		GetQuestionsHandler:   query.NewGetQuestionsHandler(contentRepo, store, nil),
		GetProfileHandler:     query.NewGetProfileHandler(store, log, now),
		GetProgressHandler:    query.NewGetProgressHandler(store),
		CompleteLessonHandler: command.NewCompleteLessonHandler(store, log, now),
		SubmitAnswerHandler:   command.NewSubmitAnswerHandler(store, log, now),
		ResetProgressHandler:  command.NewResetProgressHandler(store, log),
		ContentRepo:           contentRepo,
		Logger:                log,
	}

	return NewServer(DefaultConfig(), deps), contentRepo
}

func doRequest(t *testing.T, s *Server, method, target string, body []byte, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRootAndHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "CPA_PATH API", body["message"])
	assert.Equal(t, apiVersion, body["version"])

	rec = doRequest(t, s, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestProfile_MintsAnonymousIdentity(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/user/profile", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.EqualValues(t, user.MaxLives, body["lives"])
	assert.EqualValues(t, user.DefaultLevel, body["level"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, userIDCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestProfile_HeaderIdentityWinsAndSetsNoCookie(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/user/profile", nil,
		map[string]string{"X-User-ID": "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestCompleteLesson_HappyPath(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/user/lesson/complete",
		[]byte(`{"lesson_id":"1_1"}`), map[string]string{"X-User-ID": "alice"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 20, body["xp_earned"])
	assert.EqualValues(t, 20, body["total_xp"])
	assert.EqualValues(t, 1, body["streak"])
}

func TestCompleteLesson_BadPayloads(t *testing.T) {
	s, _ := newTestServer(t)
	h := map[string]string{"X-User-ID": "alice"}

	rec := doRequest(t, s, http.MethodPost, "/api/user/lesson/complete",
		[]byte(`{"lesson_id":"1_1","score":150}`), h)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/user/lesson/complete",
		[]byte(`{"score":`), h)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/user/lesson/complete",
		[]byte(`{}`), h)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "lesson_id is required")
}

func TestSubmitAnswer_WrongAnswerCostsALife(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/user/answer",
		[]byte(`{"question_id":"ex_1_1_1","is_correct":false}`),
		map[string]string{"X-User-ID": "alice"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, user.MaxLives-1, body["lives"])
	assert.EqualValues(t, 0, body["xp"])
}

func TestResetProgress_WipesState(t *testing.T) {
	s, _ := newTestServer(t)
	h := map[string]string{"X-User-ID": "alice"}

	doRequest(t, s, http.MethodPost, "/api/user/lesson/complete",
		[]byte(`{"lesson_id":"1_1"}`), h)

	rec := doRequest(t, s, http.MethodPost, "/api/user/reset-progress", nil, h)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])

	rec = doRequest(t, s, http.MethodGet, "/api/user/progress", nil, h)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["lessons"])
}

func TestChapters_AndDocuments(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/chapters", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body, "course_info")
	assert.Contains(t, body, "chapters")

	rec = doRequest(t, s, http.MethodGet, "/api/chapters/1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/chapters/1/lessons/1_1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/chapters/42", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/chapters/1/lessons/9_9", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuestions_ReturnsBankSelection(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/questions?chapter_id=1", nil,
		map[string]string{"X-User-ID": "alice"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.EqualValues(t, 1, body["total"])
	questions, ok := body["questions"].([]any)
	require.True(t, ok)
	assert.Len(t, questions, 1)
}

func TestQuestions_MalformedIntParamFallsBack(t *testing.T) {
	s, _ := newTestServer(t)
	h := map[string]string{"X-User-ID": "alice"}

	// A value like "2x" is not an integer, so the filter must be treated
	// as unset rather than parsed as its numeric prefix.
	rec := doRequest(t, s, http.MethodGet, "/api/questions?difficulty=2x", nil, h)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["total"])

	rec = doRequest(t, s, http.MethodGet, "/api/questions?difficulty=2", nil, h)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode(t, rec)["total"])
}

func TestRefreshData_BothMethods(t *testing.T) {
	s, contentRepo := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/admin/refresh-data", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])

	rec = doRequest(t, s, http.MethodGet, "/api/admin/refresh-data", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2, contentRepo.refreshed)
}

func TestRefreshData_FailureIsServiceUnavailable(t *testing.T) {
	s, contentRepo := newTestServer(t)
	contentRepo.refreshErr = shared.ErrBankUnavailable

	rec := doRequest(t, s, http.MethodPost, "/api/admin/refresh-data", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodOptions, "/api/user/profile", nil,
		map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-User-ID")
}
