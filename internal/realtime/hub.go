// Package realtime pushes complaint change events to live subscribers.
// Delivery is best-effort and at-most-once: events missed while a
// subscriber is disconnected are not replayed, the client re-fetches on
// reconnect. Events travel through Redis Pub/Sub so every process
// instance fans out the same stream.
package realtime

import (
	"encoding/json"
	"log"

	"civicpulse/backend/internal/metrics"
	"civicpulse/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// EventSource opens the change-event subscription. *storage.Service
// implements it.
type EventSource interface {
	SubscribeEvents() *redis.PubSub
}

// Hub is the fan-out dispatcher. All subscriber state is owned by the
// Run goroutine; other goroutines communicate over the channels.
type Hub struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventsCh     chan models.ChangeEvent

	Source EventSource
}

func NewHub(source EventSource) *Hub {
	return &Hub{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventsCh:     make(chan models.ChangeEvent, 64),
		Source:       source,
	}
}

// StartEventListener subscribes to Redis and feeds decoded events into
// EventsCh until the subscription closes.
func (h *Hub) StartEventListener() {
	go func() {
		pubsub := h.Source.SubscribeEvents()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var event models.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("ERROR: Failed to decode change event: %v", err)
				continue
			}
			h.EventsCh <- event
		}
	}()
}

// Run is the hub dispatcher loop. Start it once as a goroutine.
func (h *Hub) Run() {
	h.StartEventListener()

	for {
		select {
		case client := <-h.RegisterCh:
			h.Clients[client.GetID()] = client
			metrics.RealtimeClientsConnected.Set(float64(len(h.Clients)))
			log.Printf("INFO: Realtime subscriber %s registered (scope %s)", client.GetID(), client.GetFilter().Scope)

		case client := <-h.UnregisterCh:
			if _, ok := h.Clients[client.GetID()]; ok {
				delete(h.Clients, client.GetID())
				client.Close()
				metrics.RealtimeClientsConnected.Set(float64(len(h.Clients)))
			}

		case event := <-h.EventsCh:
			h.broadcast(event)
		}
	}
}

// broadcast delivers one event to every matching subscriber. A client
// whose buffer is full is dropped rather than allowed to stall the
// stream; it reconciles by re-fetching after reconnect.
func (h *Hub) broadcast(event models.ChangeEvent) {
	for id, client := range h.Clients {
		if !client.GetFilter().Matches(event) {
			continue
		}
		select {
		case client.GetSendChannel() <- event:
		default:
			log.Printf("WARNING: Dropping slow realtime subscriber %s", id)
			delete(h.Clients, id)
			client.Close()
			metrics.RealtimeClientsConnected.Set(float64(len(h.Clients)))
		}
	}
}
