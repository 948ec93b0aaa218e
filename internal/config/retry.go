package config

import (
	"fmt"
	"strings"

	"github.com/go-rfc/eventsource/pkg/base/optional"
	"github.com/go-rfc/eventsource/pkg/retry"
)

// Build returns the retry policy described by c.
func (c RetryConfig) Build() (retry.Policy, error) {
	maxRetries := optional.Empty[int]()
	if c.MaxRetries >= 0 {
		maxRetries = optional.Of(c.MaxRetries)
	}

	switch strings.ToLower(c.Policy) {
	case PolicyExponential:
		return retry.NewExponentialBackoff(c.Start, c.Factor, c.MaxDelay, maxRetries), nil
	case PolicyConstant:
		return retry.NewConstant(c.Delay, maxRetries), nil
	case PolicyJitter:
		if c.Jitter < 0 || c.Jitter >= 1 {
			return nil, fmt.Errorf("retry jitter must be in [0, 1), got %v", c.Jitter)
		}
		return retry.NewJitteredBackoff(c.Start, c.Factor, c.MaxDelay, c.Jitter, maxRetries), nil
	case PolicyNever:
		return retry.Never{}, nil
	}
	return nil, fmt.Errorf("unknown retry policy %q", c.Policy)
}
