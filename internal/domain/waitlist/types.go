package waitlist

type OfferState string

const (
	OfferNone     OfferState = "none"
	OfferExtended OfferState = "offered"
	OfferAccepted OfferState = "accepted"
	OfferExpired  OfferState = "expired"
)

func (s OfferState) String() string {
	return string(s)
}

func (s OfferState) IsValid() bool {
	switch s {
	case OfferNone, OfferExtended, OfferAccepted, OfferExpired:
		return true
	default:
		return false
	}
}

// RemovalReason records why an entry left the active queue. Entries are kept
// after removal so promotion statistics can be derived from history.
type RemovalReason string

const (
	RemovalPromoted  RemovalReason = "promoted"
	RemovalWithdrawn RemovalReason = "withdrawn"
	RemovalExpired   RemovalReason = "expired"
	RemovalResolved  RemovalReason = "conflict-resolved"
)
