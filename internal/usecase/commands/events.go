package commands

import (
	"context"
	"encoding/json"
	"time"

	"enrollment-core/internal/usecase/shared"
)

// Outbox topics consumed by the external notification dispatcher. Events are
// appended in the same transaction as the state change they describe.
const (
	TopicApprovalRequested     = "approval-requested"
	TopicEnrolled              = "enrolled"
	TopicWaitlisted            = "waitlisted"
	TopicWithdrawn             = "withdrawn"
	TopicRequestDenied         = "request-denied"
	TopicOfferExtended         = "offer-extended"
	TopicOfferDeclined         = "offer-declined"
	TopicOfferExpired          = "offer-expired"
	TopicPromoted              = "promoted"
	TopicConflictDetected      = "conflict-detected"
	TopicConflictInvestigating = "conflict-investigating"
	TopicConflictResolved      = "conflict-resolved"
	TopicCapacityChanged       = "capacity-changed"
)

func emitEvent(ctx context.Context, outbox shared.OutboxRepository, topic string, at time.Time, fields map[string]any) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return outbox.Append(ctx, topic, payload, at)
}
