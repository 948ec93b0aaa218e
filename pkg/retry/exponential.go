package retry

import (
	"time"

	"github.com/go-rfc/eventsource/pkg/base/optional"
)

var _ Policy = (*ExponentialBackoff)(nil)

// ExponentialBackoff waits Start after the first failure, then multiplies
// the previous delay by Factor, never exceeding MaxDelay.
type ExponentialBackoff struct {
	Start      time.Duration
	Factor     float64
	MaxDelay   time.Duration
	MaxRetries optional.Optional[int]
}

func NewExponentialBackoff(start time.Duration, factor float64, maxDelay time.Duration, maxRetries optional.Optional[int]) *ExponentialBackoff {
	return &ExponentialBackoff{
		Start:      start,
		Factor:     factor,
		MaxDelay:   maxDelay,
		MaxRetries: maxRetries,
	}
}

func (p *ExponentialBackoff) Retry(err error, last optional.Optional[State]) (time.Duration, bool) {
	if !ShouldRetry(err) || exhausted(p.MaxRetries, last) {
		return 0, false
	}
	prev, ok := last.Lookup()
	if !ok {
		return p.Start, true
	}
	next := float64(prev.Delay) * p.Factor
	if next >= float64(p.MaxDelay) {
		return p.MaxDelay, true
	}
	return time.Duration(next), true
}

// SetReconnectionTime replaces Start. Negative durations are ignored.
func (p *ExponentialBackoff) SetReconnectionTime(d time.Duration) {
	if d < 0 {
		return
	}
	p.Start = d
}
