package errs

import "errors"

// Shared error taxonomy for the admission core. Usecase layers mark their
// failures with one of these so handlers can map them to responses without
// depending on usecase internals.
var (
	// Gate errors
	ErrRateLimited = errors.New("rate limited")

	// Eligibility errors
	ErrAlreadyEnrolled     = errors.New("already enrolled")
	ErrAlreadyWaitlisted   = errors.New("already waitlisted")
	ErrPrerequisiteNotMet  = errors.New("prerequisite not met")
	ErrRestrictionViolated = errors.New("restriction violated")

	// Capacity errors
	ErrAtCapacity         = errors.New("section at capacity")
	ErrWaitlistAtCapacity = errors.New("waitlist at capacity")

	// Lifecycle errors
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrNoActiveOffer     = errors.New("no active offer")

	// Infrastructure errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)
