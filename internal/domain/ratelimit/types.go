package ratelimit

import "fmt"

// Action is the typed set of rate-limited operations. Unknown action names
// fall back to the default policy rather than stringly-typed dispatch.
type Action string

const (
	ActionSubmitRequest   Action = "submit-request"
	ActionJoinWaitlist    Action = "join-waitlist"
	ActionRespondOffer    Action = "respond-offer"
	ActionWithdraw        Action = "withdraw"
	ActionReviewRequest   Action = "review-request"
	ActionResolveConflict Action = "resolve-conflict"
)

func (a Action) String() string {
	return string(a)
}

func (a Action) IsKnown() bool {
	switch a {
	case ActionSubmitRequest, ActionJoinWaitlist, ActionRespondOffer,
		ActionWithdraw, ActionReviewRequest, ActionResolveConflict:
		return true
	default:
		return false
	}
}

// Key builds the per-actor window key.
func Key(subject string, action Action) string {
	return fmt.Sprintf("%s:%s", subject, action)
}
