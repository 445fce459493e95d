//go:build unit

package ratelimit_test

import (
	"testing"
	"time"

	"enrollment-core/internal/domain/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var policy = ratelimit.Policy{
	Window:      30 * time.Second,
	MaxAttempts: 3,
	BlockFor:    5 * time.Minute,
}

func TestDecide(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	key := "actor:submit-request"

	t.Run("first attempt opens a window", func(t *testing.T) {
		d, next := ratelimit.Decide(nil, key, policy, now)

		assert.True(t, d.Allowed)
		assert.Equal(t, 2, d.Remaining)
		assert.Equal(t, now.Add(policy.Window), d.ResetAt)
		assert.Equal(t, 1, next.Attempts)
		assert.Equal(t, now, next.WindowStart)
	})

	t.Run("limit reached within the window triggers a block", func(t *testing.T) {
		var w *ratelimit.Window
		for i := range 3 {
			d, next := ratelimit.Decide(w, key, policy, now.Add(time.Duration(i)*time.Second))
			require.True(t, d.Allowed, "attempt %d should be allowed", i+1)
			w = &next
		}

		d, next := ratelimit.Decide(w, key, policy, now.Add(3*time.Second))
		assert.False(t, d.Allowed)
		require.NotNil(t, d.BlockedUntil)
		assert.Equal(t, now.Add(3*time.Second).Add(policy.BlockFor), *d.BlockedUntil)
		require.NotNil(t, next.BlockedUntil)
	})

	t.Run("attempts during a block are denied without extending it", func(t *testing.T) {
		until := now.Add(policy.BlockFor)
		w := &ratelimit.Window{Key: key, WindowStart: now, Attempts: 3, BlockedUntil: &until}

		d, next := ratelimit.Decide(w, key, policy, now.Add(time.Minute))
		assert.False(t, d.Allowed)
		assert.Equal(t, until, *d.BlockedUntil)
		assert.Equal(t, until, *next.BlockedUntil)
	})

	t.Run("elapsed block starts a fresh window", func(t *testing.T) {
		until := now.Add(policy.BlockFor)
		w := &ratelimit.Window{Key: key, WindowStart: now, Attempts: 3, BlockedUntil: &until}

		later := until.Add(time.Second)
		d, next := ratelimit.Decide(w, key, policy, later)

		assert.True(t, d.Allowed)
		assert.Equal(t, 1, next.Attempts)
		assert.Equal(t, later, next.WindowStart)
		assert.Nil(t, next.BlockedUntil)
	})

	t.Run("elapsed window resets the counter", func(t *testing.T) {
		w := &ratelimit.Window{Key: key, WindowStart: now, Attempts: 3}

		later := now.Add(policy.Window)
		d, next := ratelimit.Decide(w, key, policy, later)

		assert.True(t, d.Allowed)
		assert.Equal(t, 1, next.Attempts)
		assert.Equal(t, later, next.WindowStart)
	})
}

func TestRetryAfter(t *testing.T) {
	now := time.Now()

	t.Run("zero when allowed", func(t *testing.T) {
		d := ratelimit.Decision{Allowed: true}
		assert.Zero(t, d.RetryAfter(now))
	})

	t.Run("block deadline wins over window reset", func(t *testing.T) {
		until := now.Add(5 * time.Minute)
		d := ratelimit.Decision{ResetAt: now.Add(time.Minute), BlockedUntil: &until}
		assert.Equal(t, 5*time.Minute, d.RetryAfter(now))
	})
}

func TestPoliciesFor(t *testing.T) {
	p := ratelimit.Policies{
		ByAction: map[ratelimit.Action]ratelimit.Policy{
			ratelimit.ActionSubmitRequest: policy,
		},
		Default: ratelimit.Policy{Window: time.Minute, MaxAttempts: 10, BlockFor: time.Minute},
	}

	assert.Equal(t, policy, p.For(ratelimit.ActionSubmitRequest))
	assert.Equal(t, p.Default, p.For(ratelimit.Action("unknown")))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "abc:withdraw", ratelimit.Key("abc", ratelimit.ActionWithdraw))
}
