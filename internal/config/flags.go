package config

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
type Flag struct {
	// Name is the long flag name (e.g. "retry-policy").
	Name string

	// Shorthand is the one-letter short flag. Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "retry.policy").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// Flag registry keys.
const (
	FlagHeader          = "header"
	FlagToken           = "token"
	FlagUsername        = "username"
	FlagPassword        = "password"
	FlagLastEventID     = "last-event-id"
	FlagMaxLineSize     = "max-line-size"
	FlagRetryPolicy     = "retry-policy"
	FlagRetryStart      = "retry-start"
	FlagRetryFactor     = "retry-factor"
	FlagRetryMaxDelay   = "retry-max-delay"
	FlagRetryDelay      = "retry-delay"
	FlagRetryJitter     = "retry-jitter"
	FlagRetryMaxRetries = "retry-max-retries"
	FlagLogLevel        = "log-level"
	FlagLogFormat       = "log-format"
	FlagMetricsAddr     = "metrics-addr"
	FlagListen          = "listen"
	FlagInterval        = "interval"
	FlagRetryHint       = "retry-hint"
)

// Flags is the registry of every flag of the command line tools.
var Flags = map[string]Flag{
	FlagHeader:          {FlagHeader, "H", "header", "header to add to the request, as 'Name: value' (repeatable)"},
	FlagToken:           {FlagToken, "", "token", "authorization bearer token"},
	FlagUsername:        {FlagUsername, "u", "username", "username to use for basic auth"},
	FlagPassword:        {FlagPassword, "p", "password", "password to use for basic auth"},
	FlagLastEventID:     {FlagLastEventID, "", "last-event-id", "resume the stream from this event id"},
	FlagMaxLineSize:     {FlagMaxLineSize, "", "max-line-size", "maximum length of a line of the stream in bytes"},
	FlagRetryPolicy:     {FlagRetryPolicy, "", "retry.policy", "reconnection policy: exponential, constant, jitter or never"},
	FlagRetryStart:      {FlagRetryStart, "", "retry.start", "first delay of the exponential and jitter policies"},
	FlagRetryFactor:     {FlagRetryFactor, "", "retry.factor", "growth factor of the exponential and jitter policies"},
	FlagRetryMaxDelay:   {FlagRetryMaxDelay, "", "retry.max-delay", "maximum delay of the exponential and jitter policies"},
	FlagRetryDelay:      {FlagRetryDelay, "", "retry.delay", "delay of the constant policy"},
	FlagRetryJitter:     {FlagRetryJitter, "", "retry.jitter", "randomization factor of the jitter policy, in [0, 1)"},
	FlagRetryMaxRetries: {FlagRetryMaxRetries, "", "retry.max-retries", "maximum retries after a failure, -1 for unlimited"},
	FlagLogLevel:        {FlagLogLevel, "", "log.level", "log level: debug, info, warn or error"},
	FlagLogFormat:       {FlagLogFormat, "", "log.format", "log format: text or json"},
	FlagMetricsAddr:     {FlagMetricsAddr, "", "metrics.addr", "serve Prometheus metrics on this address, disabled when empty"},
	FlagListen:          {FlagListen, "l", "serve.listen", "address to listen on"},
	FlagInterval:        {FlagInterval, "i", "serve.interval", "interval between events"},
	FlagRetryHint:       {FlagRetryHint, "", "serve.retry-hint", "reconnection time advertised to clients, omitted when zero"},
}

// AddFlags registers the flags of the given registry keys on fs, with the
// defaults of NewDefaultConfig. Unknown keys are ignored.
func AddFlags(fs *pflag.FlagSet, keys ...string) {
	defaults := viper.New()
	setViperDefaults(defaults)

	for _, key := range keys {
		def, ok := Flags[key]
		if !ok {
			continue
		}

		switch value := defaults.Get(def.ViperKey).(type) {
		case []string:
			fs.StringSliceP(def.Name, def.Shorthand, value, def.Description)
		case int:
			fs.IntP(def.Name, def.Shorthand, value, def.Description)
		case float64:
			fs.Float64P(def.Name, def.Shorthand, value, def.Description)
		case time.Duration:
			fs.DurationP(def.Name, def.Shorthand, value, def.Description)
		default:
			fs.StringP(def.Name, def.Shorthand, defaults.GetString(def.ViperKey), def.Description)
		}
	}
}

// bindFlags binds the registered flags present in fs to v, so they take
// precedence over every other source once set.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, def := range Flags {
		f := fs.Lookup(def.Name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(def.ViperKey, f); err != nil {
			return err
		}
	}
	return nil
}
