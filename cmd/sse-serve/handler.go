package main

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/go-rfc/eventsource/pkg/base"
	"github.com/go-rfc/eventsource/pkg/encoder"
)

const index = `<!DOCTYPE html>
<title>sse-serve</title>
<p>Open the console.</p>
<script>
    const es = new EventSource("/events");
    es.onopen = () => console.log("Connection Open!");
    es.onmessage = (e) => console.log("Message:", e.lastEventId, e.data);
    es.onerror = (e) => console.log("Error:", e);
</script>
`

func serveIndex(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := io.WriteString(w, index); err != nil {
			log.Debug("write failed", "remote", r.RemoteAddr, "error", err)
		}
	}
}

// tickHandler streams the unix time every interval.
type tickHandler struct {
	interval  time.Duration
	retryHint time.Duration
	clock     clockwork.Clock
	log       *slog.Logger
}

func newTickHandler(interval, retryHint time.Duration, clock clockwork.Clock, log *slog.Logger) *tickHandler {
	return &tickHandler{
		interval:  interval,
		retryHint: retryHint,
		clock:     clock,
		log:       log,
	}
}

func (h *tickHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	id := nextID(r.Header.Get("Last-Event-ID"))
	log := h.log.With("remote", r.RemoteAddr)
	log.Info("client connected", "from_id", id)
	defer log.Info("client disconnected")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	enc := encoder.New(w)
	if h.retryHint > 0 {
		if _, err := enc.WriteRetry(int(h.retryHint.Milliseconds())); err != nil {
			log.Debug("write failed", "error", err)
			return
		}
	}
	flusher.Flush()

	ticker := h.clock.NewTicker(h.interval)
	defer ticker.Stop()

	for ; ; id++ {
		select {
		case <-r.Context().Done():
			return
		case now := <-ticker.Chan():
			ev := &base.MessageEvent{
				ID:   strconv.FormatUint(id, 10),
				Data: strconv.FormatInt(now.Unix(), 10),
			}
			if _, err := enc.WriteEvent(ev); err != nil {
				log.Debug("write failed", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

// nextID returns the id following lastEventID, 1 when it is not a number.
func nextID(lastEventID string) uint64 {
	n, err := strconv.ParseUint(lastEventID, 10, 64)
	if err != nil {
		return 1
	}
	return n + 1
}
