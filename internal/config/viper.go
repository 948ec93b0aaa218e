package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix of the environment variables, e.g. SSE_RETRY_MAX_DELAY.
const EnvPrefix = "SSE"

// LoadDotEnv loads environment variables from the given files, .env by
// default. Missing files are ignored and variables already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return nil
}

// Load resolves the configuration.
//
// Config precedence (highest to lowest):
//  1. flags of fs that were set, when fs is not nil
//  2. environment variables (SSE_URL, SSE_RETRY_POLICY, etc.)
//  3. configFile, in any format viper reads, when not empty
//  4. defaults from NewDefaultConfig()
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setViperDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("url", d.URL)
	v.SetDefault("header", d.Headers)
	v.SetDefault("token", d.Token)
	v.SetDefault("username", d.Username)
	v.SetDefault("password", d.Password)
	v.SetDefault("last-event-id", d.LastEventID)
	v.SetDefault("max-line-size", d.MaxLineSize)

	v.SetDefault("retry.policy", d.Retry.Policy)
	v.SetDefault("retry.start", d.Retry.Start)
	v.SetDefault("retry.factor", d.Retry.Factor)
	v.SetDefault("retry.max-delay", d.Retry.MaxDelay)
	v.SetDefault("retry.delay", d.Retry.Delay)
	v.SetDefault("retry.jitter", d.Retry.Jitter)
	v.SetDefault("retry.max-retries", d.Retry.MaxRetries)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("metrics.addr", d.Metrics.Addr)

	v.SetDefault("serve.listen", d.Serve.Listen)
	v.SetDefault("serve.interval", d.Serve.Interval)
	v.SetDefault("serve.retry-hint", d.Serve.RetryHint)
}
