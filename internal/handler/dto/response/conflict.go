package response

import (
	"time"

	"enrollment-core/internal/usecase/commands"
	"enrollment-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type ConflictResponse struct {
	ID             uuid.UUID  `json:"id"`
	Kind           string     `json:"kind"`
	ActorID        uuid.UUID  `json:"actor_id"`
	SectionID      uuid.UUID  `json:"section_id"`
	FirstRecordID  uuid.UUID  `json:"first_record_id"`
	SecondRecordID uuid.UUID  `json:"second_record_id"`
	Overridable    bool       `json:"overridable"`
	Detail         string     `json:"detail"`
	Status         string     `json:"status"`
	Strategy       *string    `json:"strategy,omitempty"`
	DetectedAt     time.Time  `json:"detected_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

func FromConflictView(v *queries.ConflictView) *ConflictResponse {
	return &ConflictResponse{
		ID:             v.ID,
		Kind:           v.Kind,
		ActorID:        v.ActorID,
		SectionID:      v.SectionID,
		FirstRecordID:  v.FirstRecordID,
		SecondRecordID: v.SecondRecordID,
		Overridable:    v.Overridable,
		Detail:         v.Detail,
		Status:         v.Status,
		Strategy:       v.Strategy,
		DetectedAt:     v.DetectedAt,
		ResolvedAt:     v.ResolvedAt,
	}
}

type ScanResponse struct {
	SectionID uuid.UUID `json:"section_id"`
	Scanned   int       `json:"scanned"`
	Found     int       `json:"found"`
}

func FromScanReport(r *commands.ScanReport) *ScanResponse {
	return &ScanResponse{
		SectionID: r.SectionID,
		Scanned:   r.Scanned,
		Found:     r.Found,
	}
}
