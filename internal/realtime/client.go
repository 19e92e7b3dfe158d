package realtime

import "civicpulse/backend/internal/models"

// Client is one live subscriber, whatever the transport. The hub only
// sees this interface, so tests and future transports plug in cleanly.
type Client interface {
	// GetID returns the unique identifier of this subscription.
	GetID() string
	// GetFilter returns the predicate deciding which change events this
	// subscriber receives.
	GetFilter() Filter

	// GetSendChannel returns the channel the hub pushes matched events
	// into. It is a send-only channel from the hub's perspective.
	GetSendChannel() chan<- models.ChangeEvent

	// Run starts the client's pumps.
	Run()
	// Close tears the subscription down and releases its channels.
	Close()
}
