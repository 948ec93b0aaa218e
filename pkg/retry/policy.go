// Package retry decides whether, and after how long, a failed event stream
// is reconnected.
package retry

import (
	"errors"
	"time"

	"github.com/go-rfc/eventsource/pkg/base/optional"
)

// Defaults of the policy returned by Default.
const (
	DefaultStart    = 300 * time.Millisecond
	DefaultFactor   = 2.0
	DefaultMaxDelay = 5 * time.Second
)

type (
	// State describes the retries scheduled since the last successful
	// connection.
	State struct {
		// Attempt is the number of retries scheduled so far, starting at 1.
		Attempt int
		// Delay used by the last scheduled retry.
		Delay time.Duration
	}

	// Policy decides what happens after a failure. Retry receives the error
	// that just happened and the retry state, which is empty on the first
	// failure after a successful connection. It returns false to close the
	// stream permanently, or the delay to wait before reconnecting.
	//
	// Retry must not perform I/O nor schedule anything itself.
	Policy interface {
		Retry(err error, last optional.Optional[State]) (time.Duration, bool)

		// SetReconnectionTime receives the reconnection time advertised by
		// the server. It adjusts the base delay of subsequent decisions.
		SetReconnectionTime(d time.Duration)
	}

	// Retryable is implemented by errors that know whether the stream can
	// recover from them.
	Retryable interface {
		Retryable() bool
	}
)

// Default returns the policy used when none is configured: exponential
// backoff starting at 300ms, doubling up to 5s, retrying forever.
func Default() *ExponentialBackoff {
	return NewExponentialBackoff(DefaultStart, DefaultFactor, DefaultMaxDelay, optional.Empty[int]())
}

// ShouldRetry is the default retryability classification shared by every
// built-in policy. Errors that do not implement Retryable are not retried.
func ShouldRetry(err error) bool {
	var r Retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}

// exhausted reports whether maxRetries retries were already scheduled.
func exhausted(maxRetries optional.Optional[int], last optional.Optional[State]) bool {
	max, ok := maxRetries.Lookup()
	if !ok {
		return false
	}
	return last.GetOrDefault(State{}).Attempt >= max
}
