package request

import "github.com/google/uuid"

type JoinWaitlistRequest struct {
	SectionID uuid.UUID `json:"section_id" binding:"required"`
	// Priority tiers are granted by policy (registrar override); omitted
	// means the default tier.
	Priority *int `json:"priority" binding:"omitempty,gte=0,lte=100"`
}

type RespondOfferRequest struct {
	SectionID uuid.UUID `json:"section_id" binding:"required"`
	Action    string    `json:"action" binding:"required,oneof=accept decline"`
}

func (r *RespondOfferRequest) Accept() bool {
	return r.Action == "accept"
}
