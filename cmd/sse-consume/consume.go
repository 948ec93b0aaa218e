package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/go-rfc/eventsource/internal/config"
	"github.com/go-rfc/eventsource/internal/logging"
	"github.com/go-rfc/eventsource/pkg/encoder"
	"github.com/go-rfc/eventsource/pkg/eventsource"
	"github.com/go-rfc/eventsource/pkg/metrics"
)

const consumeLongDesc string = `Connect to a server-sent events stream and print every message to stdout,
in the event stream format. The stream is reconnected according to the retry
policy, resuming from the last received event id.

Flags can also be set with SSE_ prefixed environment variables (SSE_RETRY_POLICY
for --retry-policy), a .env file, or a config file.`

const consumeShortDesc string = "Consume a server-sent events stream"

var consumeFlags = []string{
	config.FlagHeader,
	config.FlagToken,
	config.FlagUsername,
	config.FlagPassword,
	config.FlagLastEventID,
	config.FlagMaxLineSize,
	config.FlagRetryPolicy,
	config.FlagRetryStart,
	config.FlagRetryFactor,
	config.FlagRetryMaxDelay,
	config.FlagRetryDelay,
	config.FlagRetryJitter,
	config.FlagRetryMaxRetries,
	config.FlagLogLevel,
	config.FlagLogFormat,
	config.FlagMetricsAddr,
}

type consumeCommander struct {
	configFile string
	out        io.Writer
	log        *slog.Logger
}

func newConsumeCmd() *cobra.Command {
	cmder := &consumeCommander{}

	cmd := &cobra.Command{
		Use:          "sse-consume [url]",
		Short:        consumeShortDesc,
		Long:         consumeLongDesc,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.Load(cmder.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.URL = args[0]
			}
			if cfg.URL == "" {
				return errors.New("missing url: pass it as argument or set SSE_URL")
			}

			cmder.out = cmd.OutOrStdout()
			cmder.log, err = logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			return cmder.run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&cmder.configFile, "config", "c", "", "config file (yaml, toml, json...)")
	config.AddFlags(cmd.Flags(), consumeFlags...)

	return cmd
}

func (c *consumeCommander) run(ctx context.Context, cfg *config.Config) error {
	policy, err := cfg.Retry.Build()
	if err != nil {
		return err
	}
	modifiers, err := requestModifiers(cfg)
	if err != nil {
		return err
	}

	opts := []eventsource.Option{
		eventsource.WithRetryPolicy(policy),
		eventsource.WithLogger(c.log),
		eventsource.WithRequestModifiers(modifiers...),
		eventsource.WithLastEventID(cfg.LastEventID),
		eventsource.WithMaxLineSize(cfg.MaxLineSize),
	}

	if cfg.Metrics.Addr != "" {
		registry := prometheus.NewRegistry()
		server := metrics.NewServer(cfg.Metrics.Addr, registry, c.log)
		if _, err := server.Start(); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Stop(stopCtx)
		}()
		opts = append(opts, eventsource.WithObserver(metrics.NewCollector(registry)))
	}

	es, err := eventsource.Get(cfg.URL, opts...)
	if err != nil {
		return err
	}
	defer es.Close()

	enc := encoder.New(c.out)
	for ev, err := range es.All(ctx) {
		if err != nil {
			if es.ReadyState() != eventsource.Closed {
				continue
			}
			if errors.Is(err, eventsource.ErrStreamEnded) {
				return nil
			}
			return err
		}

		switch ev.Kind {
		case eventsource.EventOpen:
			c.log.Info("connected", "url", es.URL())
		case eventsource.EventMessage:
			if _, err := enc.WriteEvent(ev.Message); err != nil {
				return fmt.Errorf("writing event: %w", err)
			}
		}
	}
	return nil
}

// requestModifiers of the headers and credentials of cfg.
func requestModifiers(cfg *config.Config) ([]eventsource.RequestModifier, error) {
	modifiers := []eventsource.RequestModifier{}
	for _, header := range cfg.Headers {
		name, value, ok := strings.Cut(header, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected 'Name: value'", header)
		}
		modifiers = append(modifiers, eventsource.WithHeader(name, strings.TrimSpace(value)))
	}
	if cfg.Username != "" {
		modifiers = append(modifiers, eventsource.WithBasicAuth(cfg.Username, cfg.Password))
	}
	if cfg.Token != "" {
		modifiers = append(modifiers, eventsource.WithBearerTokenAuth(cfg.Token))
	}
	return modifiers, nil
}
