package retry

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-rfc/eventsource/pkg/base/optional"
)

type testErr bool

func (e testErr) Error() string   { return fmt.Sprintf("test error (retryable=%t)", bool(e)) }
func (e testErr) Retryable() bool { return bool(e) }

var (
	errRetryable = testErr(true)
	errFatal     = testErr(false)
)

// drive feeds err to p until it gives up or n decisions were made.
func drive(p Policy, err error, n int) []time.Duration {
	var delays []time.Duration
	last := optional.Empty[State]()
	for range n {
		d, ok := p.Retry(err, last)
		if !ok {
			break
		}
		delays = append(delays, d)
		last = optional.Of(State{Attempt: last.GetOrDefault(State{}).Attempt + 1, Delay: d})
	}
	return delays
}

func TestShouldRetry(t *testing.T) {
	assert.True(t, ShouldRetry(errRetryable))
	assert.True(t, ShouldRetry(fmt.Errorf("wrapped: %w", errRetryable)))
	assert.False(t, ShouldRetry(errFatal))
	assert.False(t, ShouldRetry(errors.New("unknown")))
	assert.False(t, ShouldRetry(nil))
}

func TestDefault(t *testing.T) {
	p := Default()

	assert.Equal(t, 300*time.Millisecond, p.Start)
	assert.Equal(t, 2.0, p.Factor)
	assert.Equal(t, 5*time.Second, p.MaxDelay)
	assert.True(t, p.MaxRetries.IsEmpty())

	expected := []time.Duration{
		300 * time.Millisecond,
		600 * time.Millisecond,
		1200 * time.Millisecond,
		2400 * time.Millisecond,
		4800 * time.Millisecond,
		5 * time.Second,
		5 * time.Second,
	}
	assert.Equal(t, expected, drive(p, errRetryable, len(expected)))
}

func TestExponentialBackoff_MonotonicAndBounded(t *testing.T) {
	cases := []struct {
		start, max time.Duration
		factor     float64
	}{
		{time.Millisecond, time.Second, 2},
		{100 * time.Millisecond, 100 * time.Millisecond, 3},
		{250 * time.Millisecond, 10 * time.Second, 1.5},
		{time.Second, time.Hour, 1},
		{time.Second, 30 * time.Second, 1000},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s-%s-%v", tc.start, tc.max, tc.factor), func(t *testing.T) {
			delays := drive(NewExponentialBackoff(tc.start, tc.factor, tc.max, optional.Empty[int]()), errRetryable, 64)

			require.Len(t, delays, 64)
			assert.Equal(t, tc.start, delays[0])
			for i, d := range delays {
				assert.LessOrEqual(t, d, tc.max)
				if i > 0 {
					assert.GreaterOrEqual(t, d, delays[i-1])
				}
			}
		})
	}
}

func TestExponentialBackoff_MaxRetries(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5} {
		p := NewExponentialBackoff(time.Millisecond, 2, time.Second, optional.Of(n))
		assert.Len(t, drive(p, errRetryable, 100), n)
	}
}

func TestExponentialBackoff_SetReconnectionTime(t *testing.T) {
	p := Default()
	p.SetReconnectionTime(2 * time.Second)

	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 5 * time.Second}, drive(p, errRetryable, 3))
}

func TestPolicies_NegativeReconnectionTimeIsIgnored(t *testing.T) {
	policies := map[string]Policy{
		"exponential": NewExponentialBackoff(time.Second, 2, time.Minute, optional.Empty[int]()),
		"constant":    NewConstant(time.Second, optional.Empty[int]()),
		"jitter":      NewJitteredBackoff(time.Second, 2, time.Minute, 0, optional.Empty[int]()),
	}

	for name, p := range policies {
		t.Run(name, func(t *testing.T) {
			p.SetReconnectionTime(-808 * time.Microsecond)

			d, ok := p.Retry(errRetryable, optional.Empty[State]())
			assert.True(t, ok)
			assert.Equal(t, time.Second, d)
		})
	}
}

func TestConstant(t *testing.T) {
	p := NewConstant(time.Second, optional.Of(3))

	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, drive(p, errRetryable, 10))

	p.SetReconnectionTime(5 * time.Second)
	d, ok := p.Retry(errRetryable, optional.Empty[State]())
	assert.True(t, ok)
	assert.Equal(t, 5*time.Second, d)
}

func TestConstant_Unbounded(t *testing.T) {
	p := NewConstant(time.Second, optional.Empty[int]())

	assert.Len(t, drive(p, errRetryable, 50), 50)
}

func TestNever(t *testing.T) {
	p := Never{}
	p.SetReconnectionTime(time.Second)

	assert.Empty(t, drive(p, errRetryable, 10))
}

func TestPolicies_NonRetryableErrors(t *testing.T) {
	policies := map[string]Policy{
		"exponential": Default(),
		"constant":    NewConstant(time.Second, optional.Empty[int]()),
		"jitter":      NewJitteredBackoff(time.Second, 2, time.Minute, 0.5, optional.Empty[int]()),
	}

	for name, p := range policies {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, drive(p, errFatal, 10))
			assert.Empty(t, drive(p, errors.New("unknown"), 10))
		})
	}
}
