package eventsource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-rfc/eventsource/pkg/base"
	"github.com/go-rfc/eventsource/pkg/retry"
)

const testURL = "http://example.com/events"

var errConnectionRefused = errors.New("connection refused")

type (
	// reply produces the outcome of one request of the fakeClient.
	reply func(req *http.Request) (*http.Response, error)

	// fakeClient answers requests with scripted replies, in order. Requests
	// beyond the script block until their context is cancelled.
	fakeClient struct {
		mu       sync.Mutex
		replies  []reply
		requests []*http.Request
		bodies   []string
	}

	recordingObserver struct {
		statuses []Status
		messages []*base.MessageEvent
		retries  []retry.State
	}
)

func newFakeClient(replies ...reply) *fakeClient {
	return &fakeClient{replies: replies}
}

func (c *fakeClient) Do(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}

	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.bodies = append(c.bodies, body)
	var next reply
	if len(c.replies) > 0 {
		next, c.replies = c.replies[0], c.replies[1:]
	}
	c.mu.Unlock()

	if next == nil {
		<-req.Context().Done()
		return nil, req.Context().Err()
	}
	return next(req)
}

func (c *fakeClient) Requests() []*http.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*http.Request(nil), c.requests...)
}

func (c *fakeClient) Bodies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.bodies...)
}

func (o *recordingObserver) StatusChanged(status Status) {
	o.statuses = append(o.statuses, status)
}

func (o *recordingObserver) MessageReceived(ev *base.MessageEvent) {
	o.messages = append(o.messages, ev)
}

func (o *recordingObserver) RetryScheduled(_ error, state retry.State) {
	o.retries = append(o.retries, state)
}

func (o *recordingObserver) ReadyStates() []ReadyState {
	states := make([]ReadyState, len(o.statuses))
	for i, s := range o.statuses {
		states[i] = s.ReadyState
	}
	return states
}

func stream(body string) reply {
	return streamReader(strings.NewReader(body))
}

func streamReader(body io.Reader) reply {
	return respond(http.StatusOK, "text/event-stream", body)
}

func respond(status int, contentType string, body io.Reader) reply {
	return func(*http.Request) (*http.Response, error) {
		header := make(http.Header)
		if contentType != "" {
			header.Set("Content-Type", contentType)
		}
		rc, ok := body.(io.ReadCloser)
		if !ok {
			rc = io.NopCloser(body)
		}
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Header:     header,
			Body:       rc,
		}, nil
	}
}

func fail(err error) reply {
	return func(*http.Request) (*http.Response, error) {
		return nil, err
	}
}

func newTestEventSource(t *testing.T, client HTTPClient, opts ...Option) (*EventSource, *clockwork.FakeClock, *recordingObserver) {
	clock := clockwork.NewFakeClock()
	observer := &recordingObserver{}
	opts = append([]Option{
		WithHTTPClient(client),
		WithClock(clock),
		WithObserver(observer),
	}, opts...)

	es, err := Get(testURL, opts...)
	require.NoError(t, err)
	t.Cleanup(es.Close)
	return es, clock, observer
}

func next(t *testing.T, es *EventSource) (Event, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ev, err := es.Next(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "no item within 1s")
	return ev, err
}

func expectOpen(t *testing.T, es *EventSource) {
	t.Helper()
	ev, err := next(t, es)
	require.NoError(t, err)
	assert.Equal(t, EventOpen, ev.Kind)
	assert.Equal(t, Open, es.ReadyState())
}

func expectMessage(t *testing.T, es *EventSource, data string) *base.MessageEvent {
	t.Helper()
	ev, err := next(t, es)
	require.NoError(t, err)
	require.Equal(t, EventMessage, ev.Kind)
	assert.Equal(t, data, ev.Message.Data)
	return ev.Message
}

func expectRecoverable(t *testing.T, es *EventSource, kind ErrorKind) error {
	t.Helper()
	_, err := next(t, es)
	require.Error(t, err)
	assert.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
	assert.Equal(t, Connecting, es.ReadyState())
	return err
}

func expectTerminal(t *testing.T, es *EventSource, kind ErrorKind) error {
	t.Helper()
	_, err := next(t, es)
	require.Error(t, err)
	assert.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
	assert.Equal(t, Closed, es.ReadyState())

	_, err2 := next(t, es)
	assert.ErrorIs(t, err2, io.EOF)
	return err
}

func expectPending(t *testing.T, es *EventSource) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := es.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
