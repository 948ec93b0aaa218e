package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-rfc/eventsource/internal/config"
	"github.com/go-rfc/eventsource/internal/testutils/server"
	"github.com/go-rfc/eventsource/pkg/base"
)

func execute(ctx context.Context, args ...string) (string, string, error) {
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd := newConsumeCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestConsume_PrintsEventsUntilStreamEnds(t *testing.T) {
	handler := server.NewMockHandler(t)
	defer handler.Close()

	type result struct {
		stdout, stderr string
		err            error
	}
	done := make(chan result, 1)
	go func() {
		stdout, stderr, err := execute(context.Background(), handler.URL,
			"--retry-policy=never", "--log-format=json", "-H", "X-Client: test")
		done <- result{stdout, stderr, err}
	}()

	select {
	case req := <-handler.Connected:
		assert.Equal(t, "test", req.Header.Get("X-Client"))
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no connection")
	}

	handler.WriteEvent(&base.MessageEvent{ID: "1", Name: "tick", Data: "hello\nworld"})
	handler.CloseActiveRequest(true)

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, "id: 1\nevent: tick\ndata: hello\ndata: world\n\n", r.stdout)
		assert.Contains(t, r.stderr, `"msg":"connected"`)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "command did not return")
	}
}

func TestConsume_StopsOnContext(t *testing.T) {
	handler := server.NewMockHandler(t)
	defer handler.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := execute(ctx, handler.URL)
		done <- err
	}()

	<-handler.Connected
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "command did not return")
	}
}

func TestConsume_TerminalError(t *testing.T) {
	handler := server.NewMockHandler(t)
	defer handler.Close()
	handler.StatusCode = 404

	_, _, err := execute(context.Background(), handler.URL)
	assert.ErrorContains(t, err, "404")
}

func TestConsume_InvalidArguments(t *testing.T) {
	t.Setenv("SSE_URL", "")

	_, _, err := execute(context.Background())
	assert.ErrorContains(t, err, "missing url")

	_, _, err = execute(context.Background(), "http://localhost", "--retry-policy=fibonacci")
	assert.ErrorContains(t, err, "unknown retry policy")

	_, _, err = execute(context.Background(), "http://localhost", "-H", "no colon")
	assert.ErrorContains(t, err, "invalid header")

	_, _, err = execute(context.Background(), "http://localhost", "--log-level=loud")
	assert.ErrorContains(t, err, "invalid log level")

	_, _, err = execute(context.Background(), "a", "b")
	assert.Error(t, err)
}

func TestRequestModifiers(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Headers = []string{"X-A: 1", "X-B:2"}
	cfg.Username = "foo"
	cfg.Token = "s3cr3t"

	modifiers, err := requestModifiers(cfg)
	require.NoError(t, err)
	assert.Len(t, modifiers, 4)
}
