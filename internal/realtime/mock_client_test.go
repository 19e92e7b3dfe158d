package realtime_test

import (
	"civicpulse/backend/internal/models"
	"civicpulse/backend/internal/realtime"
)

type MockClient struct {
	id          string
	filter      realtime.Filter
	RecvChannel chan models.ChangeEvent
	closed      bool
}

func newMockClient(id string, filter realtime.Filter) *MockClient {
	return &MockClient{
		id:          id,
		filter:      filter,
		RecvChannel: make(chan models.ChangeEvent, 10),
	}
}

func (c *MockClient) GetID() string {
	return c.id
}

func (c *MockClient) GetFilter() realtime.Filter {
	return c.filter
}

func (c *MockClient) GetSendChannel() chan<- models.ChangeEvent {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed = true
}
