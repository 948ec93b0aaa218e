package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/go-rfc/eventsource/internal/config"
	"github.com/go-rfc/eventsource/internal/logging"
)

const serveLongDesc string = `Run an example server-sent events server. Every client of /events receives
the current unix time once per interval, with increasing event ids. Clients
that reconnect with a Last-Event-ID header resume from the following id.`

const serveShortDesc string = "Run an example server-sent events server"

var serveFlags = []string{
	config.FlagListen,
	config.FlagInterval,
	config.FlagRetryHint,
	config.FlagLogLevel,
	config.FlagLogFormat,
}

type serveCommander struct {
	configFile string
	log        *slog.Logger

	// ready receives the address of the listener, when not nil.
	ready chan<- net.Addr
}

func newServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:          "sse-serve",
		Short:        serveShortDesc,
		Long:         serveLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.Load(cmder.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Serve.Interval <= 0 {
				return errors.New("interval must be positive")
			}

			cmder.log, err = logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			return cmder.run(cmd.Context(), cfg.Serve)
		},
	}

	cmd.Flags().StringVarP(&cmder.configFile, "config", "c", "", "config file (yaml, toml, json...)")
	config.AddFlags(cmd.Flags(), serveFlags...)

	return cmd
}

func (c *serveCommander) run(ctx context.Context, cfg config.ServeConfig) error {
	mux := http.NewServeMux()
	mux.Handle("GET /events", newTickHandler(cfg.Interval, cfg.RetryHint, clockwork.NewRealClock(), c.log))
	mux.Handle("GET /{$}", serveIndex(c.log))

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return err
	}
	c.log.Info("serving events", "addr", ln.Addr().String(), "interval", cfg.Interval)
	if c.ready != nil {
		c.ready <- ln.Addr()
	}

	srv := &http.Server{
		Handler:     mux,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(ln)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
