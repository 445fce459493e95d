package ratelimit

import "time"

// Policy is one action's limit: a sliding window of at most MaxAttempts,
// then a hard block for BlockFor.
type Policy struct {
	Window      time.Duration
	MaxAttempts int
	BlockFor    time.Duration
}

// Policies maps known actions to their policies; anything else gets Default.
type Policies struct {
	ByAction map[Action]Policy
	Default  Policy
}

func (p Policies) For(action Action) Policy {
	if pol, ok := p.ByAction[action]; ok {
		return pol
	}
	return p.Default
}

// Window is the persisted per-key counter state.
type Window struct {
	Key          string
	WindowStart  time.Time
	Attempts     int
	BlockedUntil *time.Time
}

// Decision is the outcome of one check.
type Decision struct {
	Allowed      bool
	Remaining    int
	ResetAt      time.Time
	BlockedUntil *time.Time
}

// RetryAfter returns how long the caller should wait before retrying.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.Allowed {
		return 0
	}
	if d.BlockedUntil != nil {
		return d.BlockedUntil.Sub(now)
	}
	return d.ResetAt.Sub(now)
}

// Decide applies one attempt against the window under the policy. It is pure:
// the caller persists the returned window state. The window slides rather
// than bucketing strictly; a late attempt resets WindowStart to now only
// once the prior window has fully elapsed.
func Decide(w *Window, key string, p Policy, now time.Time) (Decision, Window) {
	if w != nil && w.BlockedUntil != nil {
		if now.Before(*w.BlockedUntil) {
			return Decision{
				Allowed:      false,
				Remaining:    0,
				ResetAt:      *w.BlockedUntil,
				BlockedUntil: w.BlockedUntil,
			}, *w
		}
		// Block elapsed; start fresh.
		w = nil
	}

	if w == nil || now.Sub(w.WindowStart) >= p.Window {
		next := Window{Key: key, WindowStart: now, Attempts: 1}
		return Decision{
			Allowed:   true,
			Remaining: p.MaxAttempts - 1,
			ResetAt:   now.Add(p.Window),
		}, next
	}

	if w.Attempts >= p.MaxAttempts {
		until := now.Add(p.BlockFor)
		next := *w
		next.BlockedUntil = &until
		return Decision{
			Allowed:      false,
			Remaining:    0,
			ResetAt:      until,
			BlockedUntil: &until,
		}, next
	}

	next := *w
	next.Attempts++
	return Decision{
		Allowed:   true,
		Remaining: p.MaxAttempts - next.Attempts,
		ResetAt:   w.WindowStart.Add(p.Window),
	}, next
}
