package models

import "time"

type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

func (s ModerationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Moderation holds the review lifecycle fields shared by clubs and trainer
// profiles. A nil Status is a legacy row and counts as approved for public
// listing purposes.
type Moderation struct {
	Status       *ModerationStatus `json:"status,omitempty"`
	ApprovedAt   *time.Time        `json:"approved_at,omitempty"`
	ApprovedBy   *string           `json:"approved_by,omitempty"`
	RejectedAt   *time.Time        `json:"rejected_at,omitempty"`
	RejectedBy   *string           `json:"rejected_by,omitempty"`
	RejectReason *string           `json:"reject_reason,omitempty"`
}

// PubliclyVisible reports whether the entity may appear in anonymous listing
// queries: approved, or no status at all.
func (m Moderation) PubliclyVisible() bool {
	return m.Status == nil || *m.Status == StatusApproved
}

// StatusChange is the full set of moderation columns written by one review
// decision. Exactly one of the approved/rejected sides is populated; the
// other side is nulled out.
type StatusChange struct {
	Status       ModerationStatus
	ApprovedAt   *time.Time
	ApprovedBy   *string
	RejectedAt   *time.Time
	RejectedBy   *string
	RejectReason *string
	UpdatedAt    time.Time
}

func (m Moderation) CurrentStatus() ModerationStatus {
	if m.Status == nil {
		return StatusApproved
	}
	return *m.Status
}
