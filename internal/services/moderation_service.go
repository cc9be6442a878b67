package services

import (
	"context"
	"strings"
	"time"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
)

// StatusWriter applies one review decision as a single atomic update.
// Club and trainer repositories both satisfy it.
type StatusWriter interface {
	SetStatus(ctx context.Context, id string, change models.StatusChange) error
}

// ModerationService gates listed entities behind administrator review. The
// state machine is pending -> {approved, rejected}; approved and rejected
// may be reversed by a later decision, so no state is terminal.
type ModerationService struct {
	auth Authorizer
	now  func() time.Time
}

func NewModerationService(auth Authorizer) *ModerationService {
	return &ModerationService{
		auth: auth,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Review authorizes the acting administrator, computes the metadata for the
// target status and writes it. On any error the entity's prior state is left
// intact; the write is one UPDATE.
func (s *ModerationService) Review(
	ctx context.Context,
	repo StatusWriter,
	id string,
	status models.ModerationStatus,
	actorEmail string,
	reason string,
) error {
	if !status.Valid() || id == "" {
		return ErrInvalidInput
	}
	if !s.auth.IsAdmin(actorEmail) {
		return ErrForbidden
	}

	return repo.SetStatus(ctx, id, BuildStatusChange(status, actorEmail, reason, s.now()))
}

// BuildStatusChange computes the moderation columns for a decision. The
// metadata of the side not taken is always cleared, so at most one of the
// approved/rejected sides is ever populated.
func BuildStatusChange(status models.ModerationStatus, actor, reason string, at time.Time) models.StatusChange {
	change := models.StatusChange{
		Status:    status,
		UpdatedAt: at,
	}

	switch status {
	case models.StatusApproved:
		change.ApprovedAt = &at
		change.ApprovedBy = &actor
	case models.StatusRejected:
		change.RejectedAt = &at
		change.RejectedBy = &actor
		if trimmed := strings.TrimSpace(reason); trimmed != "" {
			change.RejectReason = &trimmed
		}
	}

	return change
}
