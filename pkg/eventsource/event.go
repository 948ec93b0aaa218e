package eventsource

import "github.com/go-rfc/eventsource/pkg/base"

// EventKind tells apart the items produced by an EventSource.
type EventKind uint8

const (
	// EventOpen is produced every time a connection is established.
	EventOpen EventKind = iota
	// EventMessage carries a decoded message.
	EventMessage
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventMessage:
		return "message"
	}
	return "unknown"
}

// Event is an item of the stream. Message is set only for EventMessage.
type Event struct {
	Kind    EventKind
	Message *base.MessageEvent
}
