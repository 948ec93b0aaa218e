// Package decoder turns a Server-Sent Events byte stream into message events.
package decoder

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-rfc/eventsource/pkg/base"
	"github.com/go-rfc/eventsource/pkg/base/optional"
)

const (
	// DefaultMaxLineSize bounds the length of a single line when no explicit
	// size is given.
	DefaultMaxLineSize = bufio.MaxScanTokenSize

	initialBufferSize = 4096
	byteOrderMark     = "\uFEFF"

	// maxRetryMillis is the largest retry field that fits a time.Duration,
	// larger values are ignored.
	maxRetryMillis = math.MaxInt64 / int64(time.Millisecond)
)

var (
	// ErrInvalidUTF8 is returned when a line of the stream is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("decoder: stream is not valid UTF-8")

	// ErrLineTooLong is returned when a line does not fit the line buffer.
	ErrLineTooLong = errors.New("decoder: line too long")
)

type (
	// Decoder accepts an io.Reader input and decodes message events from it.
	Decoder struct {
		lastEventID string
		retry       optional.Optional[time.Duration]
		scanner     *bufio.Scanner
		data        *bytes.Buffer
		started     bool
	}
)

// New returns a Decoder with a growing buffer.
// Lines are limited to DefaultMaxLineSize - 1.
func New(in io.Reader) *Decoder {
	return NewSize(in, 0)
}

// NewSize returns a Decoder whose line buffer grows up to maxLineSize bytes.
// Lines are limited to maxLineSize - 1, a non-positive size means
// DefaultMaxLineSize.
func NewSize(in io.Reader, maxLineSize int) *Decoder {
	d := &Decoder{scanner: bufio.NewScanner(in), data: new(bytes.Buffer)}
	if maxLineSize > 0 {
		d.scanner.Buffer(make([]byte, 0, min(initialBufferSize, maxLineSize)), maxLineSize)
	}
	d.scanner.Split(scanLinesCR) // See scanlines.go
	return d
}

// SetLastEventID primes the last event ID buffer, events that do not carry
// an id field inherit it.
func (d *Decoder) SetLastEventID(id string) {
	d.lastEventID = id
}

// LastEventID returns the current value of the last event ID buffer.
func (d *Decoder) LastEventID() string {
	return d.lastEventID
}

// Retry returns the most recent reconnection time advertised by the stream.
func (d *Decoder) Retry() optional.Optional[time.Duration] {
	return d.retry
}

// Decode reads the input stream and parses events from it.
// It returns io.EOF once the input ends, ErrInvalidUTF8 or ErrLineTooLong
// when the stream is malformed, and any error returned by the reader as is.
func (d *Decoder) Decode() (*base.MessageEvent, error) {
	// Stores event data, which is filled after one or many lines from the reader
	var name string
	var eventSeen, hasID bool
	var retry optional.Optional[time.Duration]

	d.data.Reset()
	for d.scanner.Scan() {
		raw := d.scanner.Bytes()
		if !utf8.Valid(raw) {
			return nil, ErrInvalidUTF8
		}
		line := string(raw)
		if !d.started {
			d.started = true
			line = strings.TrimPrefix(line, byteOrderMark)
		}

		// Empty line? => Dispatch event
		if len(line) == 0 {
			if eventSeen {
				// Trim the last LF
				if l := d.data.Len(); l > 0 {
					d.data.Truncate(l - 1)
				}
				if name == "" {
					name = base.DefaultEventName
				}

				// Note the HTML living standard requires that user agents
				// skip dispatching when the event name collides with
				// the name of any DOM event.
				// Decoder does not perform this check, hence it could yield
				// events that would not be valid in a browser.
				return &base.MessageEvent{
					ID:    d.lastEventID,
					Name:  name,
					Data:  d.data.String(),
					HasID: hasID,
					Retry: retry,
				}, nil
			}
			continue
		}

		colonIndex := strings.IndexByte(line, ':')
		if colonIndex == 0 {
			// Skip comment
			continue
		}

		var fieldName, value string
		if colonIndex == -1 {
			fieldName = line
			value = ""
		} else {
			// Extract key/value for current line
			fieldName = line[:colonIndex]
			value = strings.TrimPrefix(line[colonIndex+1:], " ")
		}

		switch fieldName {
		case "event":
			name = value
			eventSeen = true
		case "data":
			d.data.WriteString(value)
			d.data.WriteByte('\n')
			eventSeen = true
		case "id":
			if strings.IndexByte(value, 0) != -1 {
				continue
			}
			d.lastEventID = value
			hasID = true
			eventSeen = true
		case "retry":
			if !isDigits(value) {
				continue
			}
			if ms, err := strconv.ParseInt(value, 10, 64); err == nil && ms <= maxRetryMillis {
				retry = optional.Of(time.Duration(ms) * time.Millisecond)
				d.retry = retry
			}
		default:
			// Ignore field
		}
	}

	if err := d.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, ErrLineTooLong
		}
		return nil, err
	}

	// Per the HTML living standard:
	// "Once the end of the file is reached, any pending data must be
	//  discarded. (If the file ends in the middle of an event, before the final
	//  empty line, the incomplete event is not dispatched.)"
	return nil, io.EOF
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
