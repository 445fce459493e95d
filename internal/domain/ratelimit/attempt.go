package ratelimit

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is a raw request record kept for abuse analysis. Recording is
// best-effort and must never block the allow/deny decision.
type Attempt struct {
	ActorID uuid.UUID
	Action  Action
	Origin  string
	At      time.Time
}
