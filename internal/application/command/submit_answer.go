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
// SUBMIT ANSWER COMMAND
// Records an answer to a quiz question. Heart recovery runs first, then the
// answer is applied: a correct answer earns XP, a wrong one costs a life.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitAnswerCommand contains the data for an answer submission.
type SubmitAnswerCommand struct {
	// UserID is the learner's token.
	UserID string

	// QuestionID identifies the answered question.
	QuestionID string

	// IsCorrect reports whether the answer was correct.
	IsCorrect bool
}

// Validate checks the command.
func (c *SubmitAnswerCommand) Validate() error {
	if c.UserID == "" {
		return shared.NewDomainError("command", "SubmitAnswer",
			shared.ErrInvalidInput, "user_id is required")
	}
	if c.QuestionID == "" {
		return shared.NewDomainError("command", "SubmitAnswer",
			shared.ErrInvalidInput, "question_id is required")
	}
	return nil
}

// SubmitAnswerResult contains the response view of an answer submission.
type SubmitAnswerResult struct {
	Lives int `json:"lives"`
	XP    int `json:"xp"`
}

// SubmitAnswerHandler handles the SubmitAnswerCommand.
type SubmitAnswerHandler struct {
	store *progress.Store
	log   *logger.Logger
	now   func() time.Time
}

// NewSubmitAnswerHandler creates a new SubmitAnswerHandler.
// now may be nil, in which case time.Now is used.
func NewSubmitAnswerHandler(store *progress.Store, log *logger.Logger, now func() time.Time) *SubmitAnswerHandler {
	if log == nil {
		log = logger.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &SubmitAnswerHandler{store: store, log: log, now: now}
}

// Handle executes the command as one per-user transaction.
func (h *SubmitAnswerHandler) Handle(ctx context.Context, cmd SubmitAnswerCommand) (*SubmitAnswerResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.now()

	snap, err := h.store.With(ctx, cmd.UserID, func(d *user.UserData) (bool, error) {
		user.RecoverHearts(&d.Profile, now)

		state := d.Progress.QuestionStateFor(cmd.QuestionID)
		if cmd.IsCorrect {
			state.Correct++
			d.Profile.AddXP(user.XPPerCorrectAnswer)
		} else {
			state.Wrong++
			d.Profile.LoseLife()
		}

		d.Progress.Statistics.ApplyAnswer(cmd.IsCorrect)

		day := d.Progress.ActivityFor(timeutil.DateKey(now))
		day.QuestionsAnswered++
		if cmd.IsCorrect {
			day.XPEarned += user.XPPerCorrectAnswer
		}

		user.ApplyStreak(&d.Profile, &d.Progress, now)
		d.Progress.Statistics.ObserveStreak(d.Profile.Streak)

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	h.log.Debug("answer recorded",
		logger.UserID(cmd.UserID),
		logger.QuestionID(cmd.QuestionID),
		logger.Bool("correct", cmd.IsCorrect),
		logger.Lives(snap.Profile.Lives),
	)

	return &SubmitAnswerResult{
		Lives: snap.Profile.Lives,
		XP:    snap.Profile.XP,
	}, nil
}
