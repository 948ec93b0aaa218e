package retry

import (
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/go-rfc/eventsource/pkg/base/optional"
)

var _ Policy = (*BackOff)(nil)

// BackOff adapts a backoff.BackOff strategy. The strategy is reset on the
// first failure after every successful connection, and backoff.Stop closes
// the stream.
type BackOff struct {
	Strategy   backoff.BackOff
	MaxRetries optional.Optional[int]
}

func FromBackOff(b backoff.BackOff, maxRetries optional.Optional[int]) *BackOff {
	return &BackOff{Strategy: b, MaxRetries: maxRetries}
}

// NewJitteredBackoff returns an exponential policy whose delays are
// randomized by ±jitter (0 <= jitter < 1) around the exponential value.
// The randomized delay may exceed maxDelay by up to jitter*maxDelay.
func NewJitteredBackoff(start time.Duration, factor float64, maxDelay time.Duration, jitter float64, maxRetries optional.Optional[int]) *BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = start
	b.Multiplier = factor
	b.MaxInterval = maxDelay
	b.RandomizationFactor = jitter
	b.Reset()
	return FromBackOff(b, maxRetries)
}

func (p *BackOff) Retry(err error, last optional.Optional[State]) (time.Duration, bool) {
	if !ShouldRetry(err) || exhausted(p.MaxRetries, last) {
		return 0, false
	}
	if last.IsEmpty() {
		p.Strategy.Reset()
	}
	d := p.Strategy.NextBackOff()
	if d == backoff.Stop {
		return 0, false
	}
	return d, true
}

// SetReconnectionTime updates the base interval of the strategies that have
// one, others ignore it. Negative durations are ignored.
func (p *BackOff) SetReconnectionTime(d time.Duration) {
	if d < 0 {
		return
	}
	switch b := p.Strategy.(type) {
	case *backoff.ExponentialBackOff:
		b.InitialInterval = d
	case *backoff.ConstantBackOff:
		b.Interval = d
	}
}
