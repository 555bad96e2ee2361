// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"time"

	"github.com/cpa-path/cpa-path-hub/internal/application/progress"
	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
	"github.com/cpa-path/cpa-path-hub/internal/domain/user"
	"github.com/cpa-path/cpa-path-hub/pkg/logger"
	"github.com/cpa-path/cpa-path-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE LESSON COMMAND
// Records a finished lesson: upserts the completion entry, credits XP,
// updates the aggregate counters and performs the daily streak transition.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteLessonCommand contains the data for a lesson completion.
type CompleteLessonCommand struct {
	// UserID is the learner's token.
	UserID string

	// LessonID identifies the finished lesson.
	LessonID string

	// Score is the lesson score 0-100. Nil means the default of 100.
	Score *int

	// XPEarned is the XP to credit. Nil means the default of 20.
	XPEarned *int
}

// Validate checks the command and resolves optional defaults.
// Invalid commands are rejected before any state is touched.
func (c *CompleteLessonCommand) Validate() error {
	if c.UserID == "" {
		return shared.NewDomainError("command", "CompleteLesson",
			shared.ErrInvalidInput, "user_id is required")
	}
	if c.LessonID == "" {
		return shared.NewDomainError("command", "CompleteLesson",
			shared.ErrInvalidInput, "lesson_id is required")
	}
	if c.Score == nil {
		score := user.DefaultLessonScore
		c.Score = &score
	}
	if *c.Score < 0 || *c.Score > 100 {
		return shared.NewDomainError("command", "CompleteLesson",
			shared.ErrValueOutOfRange, "score must be between 0 and 100")
	}
	if c.XPEarned == nil {
		xp := user.DefaultLessonXP
		c.XPEarned = &xp
	}
	if *c.XPEarned < 0 {
		return shared.NewDomainError("command", "CompleteLesson",
			shared.ErrValueOutOfRange, "xp_earned must be non-negative")
	}
	return nil
}

// CompleteLessonResult contains the response view of a lesson completion.
type CompleteLessonResult struct {
	XPEarned int `json:"xp_earned"`
	TotalXP  int `json:"total_xp"`
	Streak   int `json:"streak"`
}

// CompleteLessonHandler handles the CompleteLessonCommand.
type CompleteLessonHandler struct {
	store *progress.Store
	log   *logger.Logger
	now   func() time.Time
}

// NewCompleteLessonHandler creates a new CompleteLessonHandler.
// now may be nil, in which case time.Now is used.
func NewCompleteLessonHandler(store *progress.Store, log *logger.Logger, now func() time.Time) *CompleteLessonHandler {
	if log == nil {
		log = logger.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &CompleteLessonHandler{store: store, log: log, now: now}
}

// Handle executes the command as one per-user transaction:
// load -> mutate -> persist.
func (h *CompleteLessonHandler) Handle(ctx context.Context, cmd CompleteLessonCommand) (*CompleteLessonResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.now()
	score := *cmd.Score
	xp := *cmd.XPEarned

	snap, err := h.store.With(ctx, cmd.UserID, func(d *user.UserData) (bool, error) {
		d.Progress.Lessons[cmd.LessonID] = user.LessonCompletion{
			CompletedAt: now,
			Score:       score,
			XPEarned:    xp,
		}

		d.Profile.AddXP(xp)
		d.Progress.Statistics.ApplyLessonCompletion(xp, score)

		day := d.Progress.ActivityFor(timeutil.DateKey(now))
		day.XPEarned += xp
		day.LessonsCompleted++

		user.ApplyStreak(&d.Profile, &d.Progress, now)

		d.Progress.Statistics.ObserveDailyLessons(day.LessonsCompleted)
		d.Progress.Statistics.ObserveStreak(d.Profile.Streak)

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	h.log.Info("lesson completed",
		logger.UserID(cmd.UserID),
		logger.LessonID(cmd.LessonID),
		logger.XPAmount(xp),
		logger.Streak(snap.Profile.Streak),
	)

	return &CompleteLessonResult{
		XPEarned: xp,
		TotalXP:  snap.Profile.XP,
		Streak:   snap.Profile.Streak,
	}, nil
}
