package server

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-rfc/eventsource/pkg/base"
	"github.com/go-rfc/eventsource/pkg/encoder"
)

const contentTypeEventStream = "text/event-stream; charset=utf-8"

// MockHandler used to emulate an http server that follows
// the server-sent events protocol
type MockHandler struct {
	sync.Mutex

	// Server instance of the test HTTP server
	Server *httptest.Server

	// URL of the HTTP test server
	URL string

	// Content Type that will be served by the test server.
	ContentType string

	// StatusCode of the responses, anything but 200 ends the response
	// right away.
	StatusCode int

	// Server requires basic authorization if username is set
	BasicAuth struct {
		Username string
		Password string
	}

	// Connected receives the request of every accepted connection, once
	// the response headers are flushed and events can be written.
	Connected chan *http.Request

	t       *testing.T
	encoder *encoder.Encoder
	flusher http.Flusher
	closer  chan struct{}
}

func NewMockHandler(t *testing.T) *MockHandler {
	handler := &MockHandler{
		URL:         "",
		ContentType: contentTypeEventStream,
		StatusCode:  http.StatusOK,
		t:           t,
		closer:      make(chan struct{}),
		Connected:   make(chan *http.Request, 16),
	}
	handler.Server = httptest.NewServer(handler)
	handler.URL = handler.Server.URL
	return handler
}

func (h *MockHandler) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	if len(h.BasicAuth.Username) > 0 {
		username, password, ok := req.BasicAuth()
		if !ok || h.BasicAuth.Username != username || h.BasicAuth.Password != password {
			http.Error(rw, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	rw.Header().Set("Connection", "keep-alive")
	rw.Header().Set("Content-Type", h.ContentType)
	if h.StatusCode != http.StatusOK {
		rw.WriteHeader(h.StatusCode)
		return
	}

	h.setWriter(encoder.New(rw), rw.(http.Flusher))
	defer h.setWriter(nil, nil)

	rw.WriteHeader(http.StatusOK)
	h.Flush()
	h.Connected <- req

	select {
	case <-h.closer:
	case <-req.Context().Done():
	case <-time.After(5 * time.Second):
		// No test ever should take more than 5 seconds to run
		h.t.Error("auto-closing active request after 5s")
	}
}

func (h *MockHandler) WriteEvent(event *base.MessageEvent) {
	h.Lock()
	defer h.Unlock()

	if h.encoder == nil {
		h.t.Error("no active request to write the event to")
		return
	}
	h.encoder.WriteComment("sending test event")
	h.encoder.WriteEvent(event)
	h.flusher.Flush()
}

func (h *MockHandler) WriteRetry(delayInMillis int) {
	h.Lock()
	defer h.Unlock()

	if h.encoder == nil {
		h.t.Error("no active request to write the retry to")
		return
	}
	h.encoder.WriteRetry(delayInMillis)
	h.flusher.Flush()
}

func (h *MockHandler) Flush() {
	h.Lock()
	defer h.Unlock()

	if h.flusher != nil {
		h.flusher.Flush()
	}
}

// CloseActiveRequest cancels the current request being served
func (h *MockHandler) CloseActiveRequest(block bool) {
	h.t.Logf("[closing active request]")
	if block {
		h.closer <- struct{}{}
	} else {
		select {
		case h.closer <- struct{}{}:
		default:
		}
	}
}

// Close cancels both the active request being served and the underlying
// test HTTP server
func (h *MockHandler) Close() {
	h.CloseActiveRequest(false)
	h.Server.Close()
}

func (h *MockHandler) setWriter(enc *encoder.Encoder, flusher http.Flusher) {
	h.Lock()
	defer h.Unlock()

	h.encoder = enc
	h.flusher = flusher
}
