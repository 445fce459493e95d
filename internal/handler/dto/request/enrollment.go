package request

import "github.com/google/uuid"

type SubmitEnrollmentRequest struct {
	SectionID     uuid.UUID `json:"section_id" binding:"required"`
	Justification *string   `json:"justification" binding:"omitempty,max=1000"`
}

type DenyEnrollmentRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

type WithdrawRequest struct {
	SectionID uuid.UUID `json:"section_id" binding:"required"`
	Reason    *string   `json:"reason" binding:"omitempty,max=1000"`
}
