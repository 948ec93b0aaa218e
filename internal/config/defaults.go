package config

import (
	"time"

	"github.com/go-rfc/eventsource/internal/logging"
	"github.com/go-rfc/eventsource/pkg/decoder"
	"github.com/go-rfc/eventsource/pkg/retry"
)

// NewDefaultConfig returns the configuration used when nothing else is set.
func NewDefaultConfig() *Config {
	return &Config{
		Headers:     []string{},
		MaxLineSize: decoder.DefaultMaxLineSize,
		Retry: RetryConfig{
			Policy:     PolicyExponential,
			Start:      retry.DefaultStart,
			Factor:     retry.DefaultFactor,
			MaxDelay:   retry.DefaultMaxDelay,
			Delay:      time.Second,
			Jitter:     0.5,
			MaxRetries: -1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
		Serve: ServeConfig{
			Listen:   ":8080",
			Interval: time.Second,
		},
	}
}
