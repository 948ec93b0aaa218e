package base

import (
	"time"

	"github.com/go-rfc/eventsource/pkg/base/optional"
)

// DefaultEventName is the event type of frames that carry no event field.
const DefaultEventName = "message"

var _ (MessageEventGetter) = (*MessageEvent)(nil)

// MessageEventGetter used by the encoder to be able to write any implementation
// of message event
type MessageEventGetter interface {
	GetID() string
	GetName() string
	GetData() string
	GetRetry() optional.Optional[time.Duration]
}

// MessageEvent presents the payload being parsed from an EventSource.
type MessageEvent struct {
	ID   string
	Name string
	Data string

	// HasID is used to signal that the ID has been reset.
	// This is necessary because we cannot differentiate empty string from
	// whether it was not sent, or it was sent with empty value.
	HasID bool

	// Retry is the reconnection time advertised by the server in this frame.
	Retry optional.Optional[time.Duration]
}

// GetID returns the ID of the event.
func (m *MessageEvent) GetID() string {
	return m.ID
}

// GetName returns the name of the event.
func (m *MessageEvent) GetName() string {
	return m.Name
}

// GetRetry returns the reconnection time carried by the event, if any.
func (m *MessageEvent) GetRetry() optional.Optional[time.Duration] {
	return m.Retry
}

// GetData returns the data of the event.
func (m *MessageEvent) GetData() string {
	return m.Data
}
