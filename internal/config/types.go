// Package config loads the configuration of the command line tools.
package config

import "time"

// Retry policies understood by RetryConfig.Policy.
const (
	PolicyExponential = "exponential"
	PolicyConstant    = "constant"
	PolicyNever       = "never"
	PolicyJitter      = "jitter"
)

// Config is the configuration of sse-consume and sse-serve.
type Config struct {
	// URL of the event stream to consume.
	URL string `mapstructure:"url"`

	// Headers added to the requests, as "Name: value".
	Headers []string `mapstructure:"header"`

	Token    string `mapstructure:"token"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// LastEventID to resume the stream from.
	LastEventID string `mapstructure:"last-event-id"`

	MaxLineSize int `mapstructure:"max-line-size"`

	Retry   RetryConfig   `mapstructure:"retry"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Serve   ServeConfig   `mapstructure:"serve"`
}

// RetryConfig selects and tunes the reconnection policy.
type RetryConfig struct {
	Policy   string        `mapstructure:"policy"`
	Start    time.Duration `mapstructure:"start"`
	Factor   float64       `mapstructure:"factor"`
	MaxDelay time.Duration `mapstructure:"max-delay"`
	Delay    time.Duration `mapstructure:"delay"`
	Jitter   float64       `mapstructure:"jitter"`

	// MaxRetries bounds the retries after a failure, negative for no bound.
	MaxRetries int `mapstructure:"max-retries"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig of the Prometheus endpoint, disabled when Addr is empty.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// ServeConfig of the example server.
type ServeConfig struct {
	Listen   string        `mapstructure:"listen"`
	Interval time.Duration `mapstructure:"interval"`

	// RetryHint advertised to clients on connection, zero to omit it.
	RetryHint time.Duration `mapstructure:"retry-hint"`
}
