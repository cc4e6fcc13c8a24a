package event

import (
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
)

// Handler is a function that handles an event.
type Handler func(Event)

// PanicHandler receives panics recovered from handlers.
type PanicHandler func(eventType string, recovered any, stack []byte)

// subscription represents a registered event handler.
type subscription struct {
	id      string
	topic   string
	handler Handler
}

// Bus is a simple synchronous pub-sub event bus.
// It allows components to communicate without direct dependencies.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription // topic -> subscriptions
	topics        map[string]string         // subscription id -> topic
	nextID        atomic.Uint64
	onPanic       PanicHandler
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subscriptions: make(map[string][]subscription),
		topics:        make(map[string]string),
	}
}

// SetPanicHandler installs fn to receive handler panics. With no handler
// installed, panics are recovered and dropped.
func (b *Bus) SetPanicHandler(fn PanicHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPanic = fn
}

const wildcard = "*"

func keyedTopic(eventType, key string) string {
	return eventType + "#" + key
}

// Subscribe registers a handler for a specific event type.
// Returns a subscription ID that can be used to unsubscribe.
func (b *Bus) Subscribe(eventType string, handler Handler) string {
	return b.subscribe(eventType, handler)
}

// SubscribeKey registers a handler for events of eventType whose
// SubjectKey equals key. Events that are not Keyed never reach it.
func (b *Bus) SubscribeKey(eventType, key string, handler Handler) string {
	return b.subscribe(keyedTopic(eventType, key), handler)
}

// SubscribeAll registers a handler for all event types.
// The handler will be called for every published event.
func (b *Bus) SubscribeAll(handler Handler) string {
	return b.subscribe(wildcard, handler)
}

func (b *Bus) subscribe(topic string, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.generateID()
	b.subscriptions[topic] = append(b.subscriptions[topic], subscription{
		id:      id,
		topic:   topic,
		handler: handler,
	})
	b.topics[id] = topic
	return id
}

// Unsubscribe removes a subscription by ID.
// Returns true if the subscription was found and removed.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	topic, ok := b.topics[id]
	if !ok {
		return false
	}
	delete(b.topics, id)

	subs := b.subscriptions[topic]
	for i, sub := range subs {
		if sub.id == id {
			// Copy so snapshots taken by in-flight Publish calls stay intact
			remaining := make([]subscription, 0, len(subs)-1)
			remaining = append(remaining, subs[:i]...)
			remaining = append(remaining, subs[i+1:]...)
			if len(remaining) == 0 {
				delete(b.subscriptions, topic)
			} else {
				b.subscriptions[topic] = remaining
			}
			return true
		}
	}
	return false
}

// Publish dispatches an event to all registered handlers.
// Type handlers are called first, then handlers subscribed to the event's
// key (for Keyed events), then wildcard handlers. Within each group,
// handlers are called in registration order. A panicking handler is
// recovered and does not stop delivery to the rest.
func (b *Bus) Publish(event Event) {
	eventType := event.EventType()

	b.mu.RLock()
	groups := [][]subscription{b.subscriptions[eventType]}
	if keyed, ok := event.(Keyed); ok {
		groups = append(groups, b.subscriptions[keyedTopic(eventType, keyed.SubjectKey())])
	}
	groups = append(groups, b.subscriptions[wildcard])
	onPanic := b.onPanic
	b.mu.RUnlock()

	for _, subs := range groups {
		for _, sub := range subs {
			b.safeCall(sub.handler, event, onPanic)
		}
	}
}

// safeCall invokes a handler and recovers from any panics so one
// misbehaving handler cannot block delivery to the others.
func (b *Bus) safeCall(handler Handler, event Event, onPanic PanicHandler) {
	defer func() {
		if r := recover(); r != nil && onPanic != nil {
			onPanic(event.EventType(), r, debug.Stack())
		}
	}()
	handler(event)
}

// generateID creates a unique subscription ID.
func (b *Bus) generateID() string {
	return "sub-" + strconv.FormatUint(b.nextID.Add(1), 36)
}

// Clear removes all subscriptions.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = make(map[string][]subscription)
	b.topics = make(map[string]string)
}

// SubscriptionCount returns the total number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics)
}
