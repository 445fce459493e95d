package enrollment

type Status string

const (
	StatusRequested  Status = "requested"
	StatusEnrolled   Status = "enrolled"
	StatusWaitlisted Status = "waitlisted"
	StatusWithdrawn  Status = "withdrawn"
	StatusDenied     Status = "denied"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusRequested, StatusEnrolled, StatusWaitlisted, StatusWithdrawn, StatusDenied:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusWithdrawn || s == StatusDenied
}

// IsActive reports whether the record holds a seat or a queue slot.
func (s Status) IsActive() bool {
	return s == StatusEnrolled || s == StatusWaitlisted
}

var transitions = map[Status][]Status{
	StatusRequested:  {StatusEnrolled, StatusWaitlisted, StatusDenied},
	StatusEnrolled:   {StatusWithdrawn},
	StatusWaitlisted: {StatusEnrolled, StatusWithdrawn},
}

// CanTransition reports whether from -> to is a legal state change.
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}
