// Package eventsource implements a reconnecting Server-Sent Events client.
//
// An EventSource reissues its request whenever the stream fails in a
// recoverable way, waiting as long as its retry.Policy decides and resuming
// from the last received event id.
package eventsource

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/net/http/httpguts"

	"github.com/go-rfc/eventsource/pkg/base/optional"
	"github.com/go-rfc/eventsource/pkg/decoder"
	"github.com/go-rfc/eventsource/pkg/retry"
)

const headerLastEventID = "Last-Event-ID"

// EventSource connects and processes events from an HTTP server-sent events
// stream. It is driven by calling Next and is not safe for concurrent use.
type EventSource struct {
	id       string
	template *http.Request

	client      HTTPClient
	policy      retry.Policy
	clock       clockwork.Clock
	logger      *slog.Logger
	observer    Observer
	maxLineSize int

	started     bool
	readyState  ReadyState
	lastEventID string
	retryState  optional.Optional[retry.State]
	hint        optional.Optional[time.Duration]
	op          operation
}

// New returns an EventSource that reissues req on every connection attempt.
// No request is sent until the first call to Next.
//
// Requests with a body must be replayable: ErrCannotCloneRequest is returned
// when req.GetBody is nil.
func New(req *http.Request, opts ...Option) (*EventSource, error) {
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return nil, ErrCannotCloneRequest
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.lastEventID != "" && !httpguts.ValidHeaderFieldValue(o.lastEventID) {
		return nil, &LastEventIDError{ID: o.lastEventID}
	}

	template := req.Clone(req.Context())
	if template.Header == nil {
		template.Header = make(http.Header)
	}
	for _, modify := range o.modifiers {
		modify(template)
	}
	template.Header.Set("Accept", contentTypeEventStream)
	template.Header.Set("Cache-Control", "no-store")

	id := uuid.NewString()
	return &EventSource{
		id:          id,
		template:    template,
		client:      o.client,
		policy:      o.policy,
		clock:       o.clock,
		logger:      o.logger.With("source", id, "url", template.URL.String()),
		observer:    o.observer,
		maxLineSize: o.maxLineSize,
		readyState:  Connecting,
		lastEventID: o.lastEventID,
	}, nil
}

// Get returns an EventSource for a GET request to url.
func Get(url string, opts ...Option) (*EventSource, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return New(req, opts...)
}

// Next waits for the next item of the stream. It returns:
//   - an Event, when a connection is opened or a message is received;
//   - a stream error, recoverable when ReadyState is not Closed afterwards;
//   - io.EOF once the EventSource is closed;
//   - ctx.Err() when ctx is done first, the pending work is kept and the
//     next call resumes it.
func (es *EventSource) Next(ctx context.Context) (Event, error) {
	if es.readyState == Closed {
		return Event{}, io.EOF
	}
	if !es.started {
		es.started = true
		if err := es.connect(); err != nil {
			return Event{}, es.fail(err)
		}
	}

	for {
		switch op := es.op.(type) {
		case *delayOp:
			select {
			case <-ctx.Done():
				return Event{}, ctx.Err()
			case <-op.timer.Chan():
			}
			es.op = nil
			if err := es.connect(); err != nil {
				return Event{}, es.fail(err)
			}

		case *requestOp:
			var r response
			select {
			case <-ctx.Done():
				return Event{}, ctx.Err()
			case r = <-op.result:
			}
			es.op = nil
			return es.handleResponse(op, r)

		case *cursorOp:
			var d decoded
			select {
			case <-ctx.Done():
				return Event{}, ctx.Err()
			case d = <-op.next():
			}
			op.pending = nil
			return es.handleDecoded(op, d)

		default:
			// Unreachable while not closed: every path that clears the
			// slot either fills it again or closes.
			return Event{}, es.fail(errors.New("eventsource: no outstanding operation"))
		}
	}
}

// All ranges over the stream until it is closed or ctx is done. Stream
// errors are yielded, recoverable ones are followed by more items.
func (es *EventSource) All(ctx context.Context) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			ev, err := es.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if ctxErr := ctx.Err(); ctxErr != nil && err == ctxErr {
				return
			}
			if !yield(ev, err) {
				return
			}
		}
	}
}

// ReadyState returns the current state.
func (es *EventSource) ReadyState() ReadyState {
	return es.readyState
}

// LastEventID returns the id sent as Last-Event-ID on reconnection.
func (es *EventSource) LastEventID() string {
	return es.lastEventID
}

// URL returns the event source URL.
func (es *EventSource) URL() string {
	return es.template.URL.String()
}

// ID returns a random identifier of this instance, used in logs.
func (es *EventSource) ID() string {
	return es.id
}

// SetRetryPolicy replaces the policy used for the next failures.
func (es *EventSource) SetRetryPolicy(policy retry.Policy) {
	es.policy = policy
}

// Close the event source. Whatever is outstanding is abandoned, and Next
// returns io.EOF from now on.
func (es *EventSource) Close() {
	if es.readyState == Closed {
		return
	}
	es.abandon()
	es.logger.Info("closed")
	es.setReadyState(Closed, nil)
}

// connect issues a request with the current last event id.
func (es *EventSource) connect() error {
	ctx, cancel := context.WithCancel(context.Background())
	req := es.template.Clone(ctx)
	if es.template.GetBody != nil {
		body, err := es.template.GetBody()
		if err != nil {
			cancel()
			return &TransportError{Err: err}
		}
		req.Body = body
	}
	if es.lastEventID != "" {
		if !httpguts.ValidHeaderFieldValue(es.lastEventID) {
			cancel()
			return &LastEventIDError{ID: es.lastEventID}
		}
		req.Header.Set(headerLastEventID, es.lastEventID)
	}

	result := make(chan response, 1)
	go func() {
		resp, err := es.client.Do(req)
		result <- response{resp, err}
	}()
	es.op = &requestOp{result: result, cancel: cancel}

	es.logger.Debug("connecting", "last_event_id", es.lastEventID)
	es.setReadyState(Connecting, nil)
	return nil
}

func (es *EventSource) handleResponse(op *requestOp, r response) (Event, error) {
	if r.err != nil {
		if r.resp != nil {
			r.resp.Body.Close()
		}
		op.cancel()
		return Event{}, es.fail(&TransportError{Err: r.err})
	}
	if err := checkResponse(r.resp); err != nil {
		r.resp.Body.Close()
		op.cancel()
		return Event{}, es.fail(err)
	}

	dec := decoder.NewSize(r.resp.Body, es.maxLineSize)
	dec.SetLastEventID(es.lastEventID)
	es.op = &cursorOp{body: r.resp.Body, dec: dec, cancel: op.cancel}
	es.retryState = optional.Empty[retry.State]()

	es.logger.Info("open")
	es.setReadyState(Open, nil)
	return Event{Kind: EventOpen}, nil
}

func (es *EventSource) handleDecoded(op *cursorOp, d decoded) (Event, error) {
	if hint, ok := op.dec.Retry().Lookup(); ok {
		es.hint = optional.Of(hint)
	}
	if d.err == nil {
		if d.ev.ID != "" {
			es.lastEventID = d.ev.ID
		}
		d.ev.Retry.IfPresent(es.policy.SetReconnectionTime)
		es.observer.MessageReceived(d.ev)
		return Event{Kind: EventMessage, Message: d.ev}, nil
	}

	op.abandon()
	es.op = nil

	var err error
	switch {
	case errors.Is(d.err, io.EOF):
		err = ErrStreamEnded
	case errors.Is(d.err, decoder.ErrInvalidUTF8), errors.Is(d.err, decoder.ErrLineTooLong):
		err = &ParseError{Err: d.err}
	default:
		err = &TransportError{Err: d.err}
	}
	return Event{}, es.fail(err)
}

// fail consults the retry policy about err. When a retry is scheduled err
// is returned as a recoverable error, otherwise the event source is closed
// and err is terminal.
func (es *EventSource) fail(err error) error {
	es.hint.IfPresent(es.policy.SetReconnectionTime)

	if retry.ShouldRetry(err) {
		if delay, ok := es.policy.Retry(err, es.retryState); ok {
			state := retry.State{
				Attempt: es.retryState.GetOrDefault(retry.State{}).Attempt + 1,
				Delay:   delay,
			}
			es.retryState = optional.Of(state)
			es.op = &delayOp{timer: es.clock.NewTimer(delay)}

			es.logger.Warn("retry scheduled", "attempt", state.Attempt, "delay", delay, "error", err)
			es.observer.RetryScheduled(err, state)
			es.setReadyState(Connecting, err)
			return err
		}
	}

	es.abandon()
	es.logger.Error("closed", "kind", KindOf(err), "error", err)
	es.setReadyState(Closed, err)
	return err
}

func (es *EventSource) abandon() {
	if es.op != nil {
		es.op.abandon()
		es.op = nil
	}
}

func (es *EventSource) setReadyState(state ReadyState, err error) {
	es.readyState = state
	es.observer.StatusChanged(Status{ReadyState: state, Err: err})
}
