package response

import (
	"time"

	"enrollment-core/internal/usecase/commands"
	"enrollment-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type DecisionResponse struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	Status       string    `json:"status"`
	Position     int       `json:"position,omitempty"`
}

func FromEnrollmentResult(r *commands.EnrollmentResult) *DecisionResponse {
	return &DecisionResponse{
		EnrollmentID: r.EnrollmentID,
		Status:       string(r.Status),
		Position:     r.Position,
	}
}

type EnrollmentResponse struct {
	ID            uuid.UUID  `json:"id"`
	ActorID       uuid.UUID  `json:"actor_id"`
	SectionID     uuid.UUID  `json:"section_id"`
	SectionName   string     `json:"section_name"`
	Status        string     `json:"status"`
	Justification *string    `json:"justification,omitempty"`
	RequestedAt   time.Time  `json:"requested_at"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	EnrolledAt    *time.Time `json:"enrolled_at,omitempty"`
	WithdrawnAt   *time.Time `json:"withdrawn_at,omitempty"`
	DenialReason  *string    `json:"denial_reason,omitempty"`
}

func FromEnrollmentView(v *queries.EnrollmentView) *EnrollmentResponse {
	return &EnrollmentResponse{
		ID:            v.ID,
		ActorID:       v.ActorID,
		SectionID:     v.SectionID,
		SectionName:   v.SectionName,
		Status:        v.Status,
		Justification: v.Justification,
		RequestedAt:   v.RequestedAt,
		DecidedAt:     v.DecidedAt,
		EnrolledAt:    v.EnrolledAt,
		WithdrawnAt:   v.WithdrawnAt,
		DenialReason:  v.DenialReason,
	}
}

type EnrollmentListResponse struct {
	ID          uuid.UUID `json:"id"`
	SectionID   uuid.UUID `json:"section_id"`
	SectionName string    `json:"section_name"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requested_at"`
}

func FromEnrollmentListItem(item *queries.EnrollmentListItem) *EnrollmentListResponse {
	return &EnrollmentListResponse{
		ID:          item.ID,
		SectionID:   item.SectionID,
		SectionName: item.SectionName,
		Status:      item.Status,
		RequestedAt: item.RequestedAt,
	}
}
