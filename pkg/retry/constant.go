package retry

import (
	"time"

	"github.com/go-rfc/eventsource/pkg/base/optional"
)

var (
	_ Policy = (*Constant)(nil)
	_ Policy = Never{}
)

// Constant waits the same delay after every failure.
type Constant struct {
	Delay      time.Duration
	MaxRetries optional.Optional[int]
}

func NewConstant(delay time.Duration, maxRetries optional.Optional[int]) *Constant {
	return &Constant{Delay: delay, MaxRetries: maxRetries}
}

func (p *Constant) Retry(err error, last optional.Optional[State]) (time.Duration, bool) {
	if !ShouldRetry(err) || exhausted(p.MaxRetries, last) {
		return 0, false
	}
	return p.Delay, true
}

// SetReconnectionTime replaces Delay. Negative durations are ignored.
func (p *Constant) SetReconnectionTime(d time.Duration) {
	if d < 0 {
		return
	}
	p.Delay = d
}

// Never disables reconnection: every failure closes the stream.
type Never struct{}

func (Never) Retry(error, optional.Optional[State]) (time.Duration, bool) {
	return 0, false
}

func (Never) SetReconnectionTime(time.Duration) {}
