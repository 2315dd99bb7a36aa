package wallet

import "sync"

// EventType defines the type of event being broadcast.
type EventType string

const (
	EventStatusChanged  EventType = "status_changed"
	EventBalanceUpdated EventType = "balance_updated"
	EventSplitCreated   EventType = "split_created"
	EventSplitUpdated   EventType = "split_updated"
	EventProfileUpdated EventType = "profile_updated"
)

// Event represents a state-change notification from the core.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Subscriber is a channel that receives events.
type Subscriber chan Event

// Bus fans events out to subscribers. A slow subscriber drops events rather
// than blocking the core.
type Bus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// Subscribe adds a new subscriber and returns its channel. Callers must hold
// no reference after Unsubscribe.
func (b *Bus) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(Subscriber, 100)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Notify delivers an event to every subscriber without blocking.
func (b *Bus) Notify(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subscribers {
		select {
		case sub <- event:
		default:
		}
	}
}
