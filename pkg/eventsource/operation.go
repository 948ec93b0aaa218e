package eventsource

import (
	"context"
	"io"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/go-rfc/eventsource/pkg/base"
	"github.com/go-rfc/eventsource/pkg/decoder"
)

type (
	// operation is the single outstanding unit of work of an EventSource.
	operation interface {
		// abandon releases the resources of the operation without waiting
		// for it to complete.
		abandon()
	}

	// delayOp waits before reconnecting.
	delayOp struct {
		timer clockwork.Timer
	}

	// requestOp waits for the response of a request.
	requestOp struct {
		result <-chan response
		cancel context.CancelFunc
	}

	// cursorOp reads events from a validated response. At most one decode
	// is in flight.
	cursorOp struct {
		body    io.ReadCloser
		dec     *decoder.Decoder
		cancel  context.CancelFunc
		pending <-chan decoded
	}

	response struct {
		resp *http.Response
		err  error
	}

	decoded struct {
		ev  *base.MessageEvent
		err error
	}
)

func (op *delayOp) abandon() {
	op.timer.Stop()
}

func (op *requestOp) abandon() {
	op.cancel()
	go func() {
		if r := <-op.result; r.resp != nil {
			r.resp.Body.Close()
		}
	}()
}

// next starts a decode unless one is already in flight.
func (op *cursorOp) next() <-chan decoded {
	if op.pending == nil {
		ch := make(chan decoded, 1)
		go func() {
			ev, err := op.dec.Decode()
			ch <- decoded{ev, err}
		}()
		op.pending = ch
	}
	return op.pending
}

func (op *cursorOp) abandon() {
	op.cancel()
	op.body.Close()
}
