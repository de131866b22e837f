package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDial = errors.New("dial tcp: connection refused")

func outcome(success bool) func() error {
	return func() error {
		if success {
			return nil
		}
		return errDial
	}
}

// clock is a manually advanced time source
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(settings Settings) (*Breaker, *clock) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	b := New("test", settings)
	b.now = c.now
	b.expiry = c.now().Add(b.settings.Interval)
	return b, c
}

func tripAfter(n uint32) func(Counts) bool {
	return func(counts Counts) bool { return counts.ConsecutiveFailures >= n }
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		requests []bool // true = success
		want     State
	}{
		{
			name:     "stays closed on successes",
			settings: Settings{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute},
			requests: []bool{true, true, true},
			want:     StateClosed,
		},
		{
			name:     "opens after consecutive failures",
			settings: Settings{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, ReadyToTrip: tripAfter(3)},
			requests: []bool{false, false, false},
			want:     StateOpen,
		},
		{
			name:     "success resets the failure streak",
			settings: Settings{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, ReadyToTrip: tripAfter(3)},
			requests: []bool{false, false, true, false, false},
			want:     StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBreaker(tt.settings)
			for _, success := range tt.requests {
				_ = b.Execute(outcome(success))
			}
			assert.Equal(t, tt.want, b.State())
		})
	}
}

func TestBreakerPassesThroughErrors(t *testing.T) {
	b, _ := newTestBreaker(DefaultSettings())

	err := b.Execute(outcome(false))
	assert.ErrorIs(t, err, errDial)
	assert.NoError(t, b.Execute(outcome(true)))
}

func TestBreakerRejectsWhileOpen(t *testing.T) {
	b, _ := newTestBreaker(Settings{Timeout: time.Minute, ReadyToTrip: tripAfter(1)})

	require.Error(t, b.Execute(outcome(false)))
	require.Equal(t, StateOpen, b.State())

	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerRecovery(t *testing.T) {
	t.Run("half-open closes after enough successes", func(t *testing.T) {
		b, c := newTestBreaker(Settings{MaxRequests: 2, Timeout: time.Second, ReadyToTrip: tripAfter(1)})

		_ = b.Execute(outcome(false))
		c.advance(2 * time.Second)
		assert.Equal(t, StateHalfOpen, b.State())

		require.NoError(t, b.Execute(outcome(true)))
		assert.Equal(t, StateHalfOpen, b.State())
		require.NoError(t, b.Execute(outcome(true)))
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("half-open failure reopens", func(t *testing.T) {
		b, c := newTestBreaker(Settings{MaxRequests: 2, Timeout: time.Second, ReadyToTrip: tripAfter(1)})

		_ = b.Execute(outcome(false))
		c.advance(2 * time.Second)
		_ = b.Execute(outcome(false))
		assert.Equal(t, StateOpen, b.State())
	})

	t.Run("half-open limits probes", func(t *testing.T) {
		b, c := newTestBreaker(Settings{MaxRequests: 1, Timeout: time.Second, ReadyToTrip: tripAfter(1)})

		_ = b.Execute(outcome(false))
		c.advance(2 * time.Second)

		err := b.Execute(func() error {
			assert.ErrorIs(t, b.Execute(outcome(true)), ErrTooManyRequests)
			return nil
		})
		assert.NoError(t, err)
	})
}

func TestBreakerCounts(t *testing.T) {
	b, c := newTestBreaker(Settings{Interval: time.Minute, ReadyToTrip: tripAfter(10)})

	_ = b.Execute(outcome(true))
	_ = b.Execute(outcome(false))
	_ = b.Execute(outcome(false))

	assert.Equal(t, Counts{
		Requests:            3,
		TotalSuccesses:      1,
		TotalFailures:       2,
		ConsecutiveFailures: 2,
	}, b.Counts())

	c.advance(2 * time.Minute)
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, Counts{}, b.Counts())
}

func TestBreakerStateChangeHook(t *testing.T) {
	var transitions []string
	b, c := newTestBreaker(Settings{
		MaxRequests: 1,
		Timeout:     time.Second,
		ReadyToTrip: tripAfter(1),
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})

	_ = b.Execute(outcome(false))
	c.advance(2 * time.Second)
	_ = b.Execute(outcome(true))

	assert.Equal(t, []string{
		"test:closed->open",
		"test:open->half-open",
		"test:half-open->closed",
	}, transitions)
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	b, _ := newTestBreaker(Settings{ReadyToTrip: tripAfter(1)})

	assert.Panics(t, func() {
		_ = b.Execute(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, b.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(7).String())
}
