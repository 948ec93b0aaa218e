package eventsource

import (
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/go-rfc/eventsource/pkg/decoder"
	"github.com/go-rfc/eventsource/pkg/retry"
)

type (
	// HTTPClient issues the connection requests. *http.Client implements it.
	HTTPClient interface {
		Do(req *http.Request) (*http.Response, error)
	}

	// Option configures an EventSource.
	Option func(*options)

	options struct {
		client      HTTPClient
		policy      retry.Policy
		clock       clockwork.Clock
		logger      *slog.Logger
		observer    Observer
		lastEventID string
		modifiers   []RequestModifier
		maxLineSize int
	}
)

func defaultOptions() options {
	return options{
		client:      http.DefaultClient,
		policy:      retry.Default(),
		clock:       clockwork.NewRealClock(),
		logger:      slog.New(slog.DiscardHandler),
		observer:    nopObserver{},
		maxLineSize: decoder.DefaultMaxLineSize,
	}
}

// WithHTTPClient sets the client used to issue requests,
// http.DefaultClient by default.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithRetryPolicy sets the policy consulted after failures,
// retry.Default() by default.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithClock sets the clock of the reconnection delays.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger, logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLastEventID resumes the stream from id, it is sent as the
// Last-Event-ID header of the first request.
func WithLastEventID(id string) Option {
	return func(o *options) {
		o.lastEventID = id
	}
}

func WithRequestModifiers(modifiers ...RequestModifier) Option {
	return func(o *options) {
		o.modifiers = append(o.modifiers, modifiers...)
	}
}

// WithMaxLineSize bounds the length of a line of the stream, longer lines
// close the stream with a ParseError.
func WithMaxLineSize(n int) Option {
	return func(o *options) {
		o.maxLineSize = n
	}
}
