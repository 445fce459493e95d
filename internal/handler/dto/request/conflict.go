package request

import "github.com/google/uuid"

// DetectConflictsRequest scopes a batch scan. Omitting section_id scans
// every section.
type DetectConflictsRequest struct {
	SectionID uuid.UUID `json:"section_id"`
}

type ResolveConflictRequest struct {
	Strategy string `json:"strategy" binding:"required,oneof=auto-drop-lower-priority manual-override deny-and-notify"`
}
