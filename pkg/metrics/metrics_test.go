package metrics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-rfc/eventsource/pkg/base"
	"github.com/go-rfc/eventsource/pkg/eventsource"
	"github.com/go-rfc/eventsource/pkg/retry"
)

func TestCollector(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.StatusChanged(eventsource.Status{ReadyState: eventsource.Connecting})
	c.StatusChanged(eventsource.Status{ReadyState: eventsource.Open})
	c.MessageReceived(&base.MessageEvent{Name: "message"})
	c.MessageReceived(&base.MessageEvent{Name: "message"})
	c.MessageReceived(&base.MessageEvent{Name: "ping"})
	c.RetryScheduled(eventsource.ErrStreamEnded, retry.State{Attempt: 1, Delay: 300 * time.Millisecond})
	c.StatusChanged(eventsource.Status{ReadyState: eventsource.Connecting, Err: eventsource.ErrStreamEnded})
	c.StatusChanged(eventsource.Status{ReadyState: eventsource.Closed, Err: &eventsource.StatusCodeError{StatusCode: 404}})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ReadyState))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Connections))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Messages.WithLabelValues("message")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Messages.WithLabelValues("ping")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Errors.WithLabelValues("StreamEnded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Errors.WithLabelValues("StatusCode")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Retries))
	assert.Equal(t, 1, testutil.CollectAndCount(c.RetryDelay))
}

func TestCollector_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	assert.Panics(t, func() { NewCollector(reg) })
}

func TestServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.Retries.Inc()

	s := NewServer("127.0.0.1:0", reg, slog.New(slog.DiscardHandler))
	addr, err := s.Start()
	require.NoError(t, err)
	defer s.Stop(context.Background())

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "sse_retries_total 1"), string(body))
}

func TestServer_BindError(t *testing.T) {
	s := NewServer("256.0.0.1:http", prometheus.NewRegistry(), slog.New(slog.DiscardHandler))

	_, err := s.Start()
	assert.Error(t, err)
	assert.False(t, errors.Is(err, http.ErrServerClosed))
}
