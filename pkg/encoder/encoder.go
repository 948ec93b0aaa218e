// Package encoder writes Server-Sent Events frames.
package encoder

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/go-rfc/eventsource/pkg/base"
)

type Encoder struct {
	buf *bytes.Buffer
	out io.Writer
}

func New(out io.Writer) *Encoder {
	return &Encoder{
		buf: new(bytes.Buffer),
		out: out,
	}
}

// WriteEvent writes a complete frame, terminated by an empty line.
// Multi-line data is split into one data field per line.
func (e *Encoder) WriteEvent(event base.MessageEventGetter) (int, error) {
	e.buf.Reset()

	if id := event.GetID(); id != "" {
		e.field("id", id)
	}

	if name := event.GetName(); name != "" {
		e.field("event", name)
	}

	if retry, ok := event.GetRetry().Lookup(); ok {
		e.field("retry", strconv.FormatInt(retry.Milliseconds(), 10))
	}

	if data := event.GetData(); data != "" {
		for _, line := range strings.Split(data, "\n") {
			e.field("data", line)
		}
	}

	e.buf.WriteByte('\n')
	return e.flush()
}

// WriteComment writes a comment line, which decoders ignore. Useful as a
// keep-alive.
func (e *Encoder) WriteComment(comment string) (int, error) {
	e.buf.Reset()
	e.buf.WriteString(": " + comment + "\n")
	return e.flush()
}

// WriteRetry advertises the reconnection time to the client.
func (e *Encoder) WriteRetry(retryDelayInMillis int) (int, error) {
	e.buf.Reset()
	e.field("retry", strconv.Itoa(retryDelayInMillis))
	return e.flush()
}

func (e *Encoder) field(name, value string) {
	e.buf.WriteString(name)
	e.buf.WriteString(": ")
	e.buf.WriteString(value)
	e.buf.WriteByte('\n')
}

func (e *Encoder) flush() (int, error) {
	return e.out.Write(e.buf.Bytes())
}
