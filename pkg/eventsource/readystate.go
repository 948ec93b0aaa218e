package eventsource

//go:generate stringer -type=ReadyState

// ReadyState indicates the state of the EventSource.
type ReadyState uint16

const (
	// Connecting while a request or a reconnection delay is outstanding.
	Connecting ReadyState = iota
	// Open while the events of a validated response are being read.
	Open
	// Closed once the stream failed permanently or Close was invoked.
	Closed
)
