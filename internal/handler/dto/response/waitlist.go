package response

import (
	"time"

	"enrollment-core/internal/usecase/commands"
	"enrollment-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type JoinWaitlistResponse struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	EntryID      uuid.UUID `json:"entry_id"`
	Position     int       `json:"position"`
}

func FromJoinResult(r *commands.JoinResult) *JoinWaitlistResponse {
	return &JoinWaitlistResponse{
		EnrollmentID: r.EnrollmentID,
		EntryID:      r.EntryID,
		Position:     r.Position,
	}
}

type WaitlistPositionResponse struct {
	EntryID       uuid.UUID  `json:"entry_id"`
	SectionID     uuid.UUID  `json:"section_id"`
	Position      int        `json:"position"`
	QueueLength   int        `json:"queue_length"`
	Priority      int        `json:"priority"`
	OfferState    string     `json:"offer_state"`
	OfferDeadline *time.Time `json:"offer_deadline,omitempty"`
	Probability   float64    `json:"probability"`
}

func FromWaitlistPosition(v *queries.WaitlistPositionView) *WaitlistPositionResponse {
	return &WaitlistPositionResponse{
		EntryID:       v.EntryID,
		SectionID:     v.SectionID,
		Position:      v.Position,
		QueueLength:   v.QueueLength,
		Priority:      v.Priority,
		OfferState:    v.OfferState,
		OfferDeadline: v.OfferDeadline,
		Probability:   v.Probability,
	}
}

type SweepResponse struct {
	SectionID uuid.UUID `json:"section_id"`
	Expired   int       `json:"expired"`
	Offered   int       `json:"offered"`
}

func FromSweepReport(r *commands.SweepReport) *SweepResponse {
	return &SweepResponse{
		SectionID: r.SectionID,
		Expired:   r.Expired,
		Offered:   r.Offered,
	}
}
