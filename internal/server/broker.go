package server

import (
	"encoding/json"
	"sync"
)

const (
	EventPropertyCreated = "property.created"
	EventPropertyUpdated = "property.updated"
)

// PropertyEvent is the payload published to an owner's subscribers. It
// covers listing changes and new bookings.
type PropertyEvent struct {
	Type       string `json:"type"`
	PropertyID string `json:"propertyId"`
	BookingID  string `json:"bookingId,omitempty"`
	Name       string `json:"name,omitempty"`
	At         string `json:"at"`
}

// Broker is an in-process pub/sub for SSE events, keyed by owner ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

func (b *Broker) Subscribe(ownerID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[ownerID] == nil {
		b.subs[ownerID] = make(map[chan []byte]struct{})
	}
	b.subs[ownerID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ownerID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[ownerID], ch)
	if len(b.subs[ownerID]) == 0 {
		delete(b.subs, ownerID)
	}
	b.mu.Unlock()
}

// Publish never blocks; a subscriber whose buffer is full misses the event.
func (b *Broker) Publish(ownerID string, event PropertyEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[ownerID] {
		select {
		case ch <- data:
		default:
		}
	}
	b.mu.RUnlock()
}
