package response

import (
	"enrollment-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type UtilizationResponse struct {
	SectionID        uuid.UUID `json:"section_id"`
	Name             string    `json:"name"`
	Capacity         int       `json:"capacity"`
	Enrolled         int       `json:"enrolled"`
	AvailableSeats   int       `json:"available_seats"`
	UtilizationPct   float64   `json:"utilization_pct"`
	WaitlistCapacity *int      `json:"waitlist_capacity,omitempty"`
	WaitlistLength   int       `json:"waitlist_length"`
	RequiresApproval bool      `json:"requires_approval"`
}

func FromUtilizationView(v *queries.SectionUtilizationView) *UtilizationResponse {
	return &UtilizationResponse{
		SectionID:        v.SectionID,
		Name:             v.Name,
		Capacity:         v.Capacity,
		Enrolled:         v.Enrolled,
		AvailableSeats:   v.AvailableSeats,
		UtilizationPct:   v.UtilizationPct,
		WaitlistCapacity: v.WaitlistCapacity,
		WaitlistLength:   v.WaitlistLength,
		RequiresApproval: v.RequiresApproval,
	}
}
