package eventsource

import (
	"github.com/go-rfc/eventsource/pkg/base"
	"github.com/go-rfc/eventsource/pkg/retry"
)

var _ Observer = nopObserver{}

// Observer is notified synchronously from Next and Close. Implementations
// must not block.
type Observer interface {
	StatusChanged(status Status)
	MessageReceived(ev *base.MessageEvent)
	RetryScheduled(err error, state retry.State)
}

type nopObserver struct{}

func (nopObserver) StatusChanged(Status)               {}
func (nopObserver) MessageReceived(*base.MessageEvent) {}
func (nopObserver) RetryScheduled(error, retry.State)  {}
