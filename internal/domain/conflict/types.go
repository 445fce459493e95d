package conflict

type Kind string

const (
	KindScheduleOverlap       Kind = "schedule-overlap"
	KindDuplicateEnrollment   Kind = "duplicate-enrollment"
	KindPrerequisiteViolation Kind = "prerequisite-violation"
	KindRestrictionViolation  Kind = "restriction-violation"
	KindCapacityOverbook      Kind = "capacity-overbook"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindScheduleOverlap, KindDuplicateEnrollment, KindPrerequisiteViolation,
		KindRestrictionViolation, KindCapacityOverbook:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusOpen          Status = "open"
	StatusInvestigating Status = "investigating"
	StatusResolved      Status = "resolved"
)

type Strategy string

const (
	StrategyAutoDropLowerPriority Strategy = "auto-drop-lower-priority"
	StrategyManualOverride        Strategy = "manual-override"
	StrategyDenyAndNotify         Strategy = "deny-and-notify"
)

func (s Strategy) IsValid() bool {
	switch s {
	case StrategyAutoDropLowerPriority, StrategyManualOverride, StrategyDenyAndNotify:
		return true
	default:
		return false
	}
}
