package command

import (
	"context"

	"github.com/cpa-path/cpa-path-hub/internal/application/progress"
	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
	"github.com/cpa-path/cpa-path-hub/internal/domain/user"
	"github.com/cpa-path/cpa-path-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET PROGRESS COMMAND
// Reinitializes the learner's profile and history to defaults while keeping
// the identity. The wiped record is persisted immediately.
// ══════════════════════════════════════════════════════════════════════════════

// ResetProgressCommand contains the data for a progress reset.
type ResetProgressCommand struct {
	// UserID is the learner's token.
	UserID string
}

// Validate checks the command.
func (c *ResetProgressCommand) Validate() error {
	if c.UserID == "" {
		return shared.NewDomainError("command", "ResetProgress",
			shared.ErrInvalidInput, "user_id is required")
	}
	return nil
}

// ResetProgressResult contains the response view of a reset.
type ResetProgressResult struct {
	Success bool `json:"success"`
}

// ResetProgressHandler handles the ResetProgressCommand.
type ResetProgressHandler struct {
	store *progress.Store
	log   *logger.Logger
}

// NewResetProgressHandler creates a new ResetProgressHandler.
func NewResetProgressHandler(store *progress.Store, log *logger.Logger) *ResetProgressHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ResetProgressHandler{store: store, log: log}
}

// Handle executes the command.
func (h *ResetProgressHandler) Handle(ctx context.Context, cmd ResetProgressCommand) (*ResetProgressResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	_, err := h.store.With(ctx, cmd.UserID, func(d *user.UserData) (bool, error) {
		d.Reset()
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	h.log.Info("progress reset", logger.UserID(cmd.UserID))

	return &ResetProgressResult{Success: true}, nil
}
