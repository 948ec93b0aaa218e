package eventsource

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-rfc/eventsource/pkg/decoder"
)

//go:generate stringer -type=ErrorKind -trimprefix=Kind

// ErrorKind classifies the errors reported by an EventSource.
type ErrorKind uint8

const (
	// KindUnknown is returned by KindOf for errors not produced by this package.
	KindUnknown ErrorKind = iota
	// KindUTF8 the stream contained bytes that are not valid UTF-8.
	KindUTF8
	// KindParse the stream could not be split into events.
	KindParse
	// KindTransport the request or the body read failed.
	KindTransport
	// KindContentType the response is not a text/event-stream.
	KindContentType
	// KindStatusCode the response status is not 200.
	KindStatusCode
	// KindLastEventID the last event id cannot be sent as a header value.
	KindLastEventID
	// KindStreamEnded the server closed the body.
	KindStreamEnded
	// KindCannotCloneRequest the request cannot be reissued.
	KindCannotCloneRequest
)

var (
	// ErrStreamEnded is reported when the server ends the response body.
	// It is retryable: servers end streams to force a reconnection.
	ErrStreamEnded error = streamEndedError{}

	// ErrCannotCloneRequest is returned by New when the request has a body
	// that cannot be replayed on reconnection (GetBody is nil).
	ErrCannotCloneRequest = errors.New("eventsource: request cannot be cloned")
)

type (
	// TransportError wraps a failure of the HTTP client, or a failure while
	// reading the response body.
	TransportError struct {
		Err error
	}

	// StatusCodeError is reported when the response status is not 200 OK.
	StatusCodeError struct {
		StatusCode int
		Status     string
	}

	// ContentTypeError is reported when the response Content-Type is missing
	// or is not text/event-stream.
	ContentTypeError struct {
		ContentType string
	}

	// LastEventIDError is reported when the last event id is not a valid
	// header value.
	LastEventIDError struct {
		ID string
	}

	// ParseError is reported when the response body cannot be decoded.
	// Err is decoder.ErrInvalidUTF8 or decoder.ErrLineTooLong.
	ParseError struct {
		Err error
	}

	streamEndedError struct{}
)

func (e *TransportError) Error() string {
	return "eventsource: transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Retryable() bool {
	return true
}

func (e *StatusCodeError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return "eventsource: invalid status code: " + status
}

func (e *StatusCodeError) Retryable() bool {
	return false
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("eventsource: invalid content type: %q", e.ContentType)
}

func (e *ContentTypeError) Retryable() bool {
	return false
}

func (e *LastEventIDError) Error() string {
	return fmt.Sprintf("eventsource: invalid last event id: %q", e.ID)
}

func (e *LastEventIDError) Retryable() bool {
	return false
}

func (e *ParseError) Error() string {
	return "eventsource: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Retryable() bool {
	return false
}

func (streamEndedError) Error() string {
	return "eventsource: stream ended"
}

func (streamEndedError) Retryable() bool {
	return true
}

// KindOf returns the kind of err, looking through wrapped errors.
func KindOf(err error) ErrorKind {
	var (
		parse       *ParseError
		transport   *TransportError
		contentType *ContentTypeError
		statusCode  *StatusCodeError
		lastEventID *LastEventIDError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrStreamEnded):
		return KindStreamEnded
	case errors.Is(err, ErrCannotCloneRequest):
		return KindCannotCloneRequest
	case errors.As(err, &parse):
		if errors.Is(parse.Err, decoder.ErrInvalidUTF8) {
			return KindUTF8
		}
		return KindParse
	case errors.As(err, &transport):
		return KindTransport
	case errors.As(err, &contentType):
		return KindContentType
	case errors.As(err, &statusCode):
		return KindStatusCode
	case errors.As(err, &lastEventID):
		return KindLastEventID
	}
	return KindUnknown
}
