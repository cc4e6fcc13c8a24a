package event

import (
	"time"

	"github.com/Iron-Ham/tileboard/internal/element"
)

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "element.changed")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Keyed is implemented by events about a single element. Handlers
// registered with [Bus.SubscribeKey] only see events whose key matches.
type Keyed interface {
	SubjectKey() string
}

// Event type identifiers.
const (
	TypeElementRegistered = "element.registered"
	TypeElementChanged    = "element.changed"
	TypeActionDispatched  = "action.dispatched"
	TypeActionIgnored     = "action.ignored"
	TypeBootstrapLoaded   = "bootstrap.loaded"
	TypeBootstrapFailed   = "bootstrap.failed"
	TypeFetchRetry        = "bootstrap.retry"
)

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Registry Events
// -----------------------------------------------------------------------------

// ElementRegisteredEvent is emitted when a key enters the registry for the
// first time, either by first mount or by a merge against an absent key.
type ElementRegisteredEvent struct {
	baseEvent
	Key     string
	Type    element.Type
	Element element.Element
}

// NewElementRegisteredEvent creates an ElementRegisteredEvent.
func NewElementRegisteredEvent(el element.Element) ElementRegisteredEvent {
	return ElementRegisteredEvent{
		baseEvent: newBaseEvent(TypeElementRegistered),
		Key:       el.Key(),
		Type:      el.Type(),
		Element:   el,
	}
}

func (e ElementRegisteredEvent) SubjectKey() string { return e.Key }

// ElementChangedEvent is emitted after a merge-update stored a new element.
type ElementChangedEvent struct {
	baseEvent
	Key      string
	Previous element.Element // nil when the key was absent before the merge
	Current  element.Element
}

// NewElementChangedEvent creates an ElementChangedEvent.
func NewElementChangedEvent(key string, previous, current element.Element) ElementChangedEvent {
	return ElementChangedEvent{
		baseEvent: newBaseEvent(TypeElementChanged),
		Key:       key,
		Previous:  previous,
		Current:   current,
	}
}

func (e ElementChangedEvent) SubjectKey() string { return e.Key }

// -----------------------------------------------------------------------------
// Action Events
// -----------------------------------------------------------------------------

// ActionDispatchedEvent is emitted when a button action was applied.
type ActionDispatchedEvent struct {
	baseEvent
	ButtonKey    string
	ActionType   element.ActionType
	ReferenceKey string
}

// NewActionDispatchedEvent creates an ActionDispatchedEvent.
func NewActionDispatchedEvent(buttonKey string, action element.Action) ActionDispatchedEvent {
	return ActionDispatchedEvent{
		baseEvent:    newBaseEvent(TypeActionDispatched),
		ButtonKey:    buttonKey,
		ActionType:   action.Type,
		ReferenceKey: action.ReferenceElementKey,
	}
}

// ActionIgnoredEvent is emitted when an action was not applied, either
// because its type is unknown or because it was rejected.
type ActionIgnoredEvent struct {
	baseEvent
	ButtonKey  string
	ActionType element.ActionType
	Reason     string
}

// NewActionIgnoredEvent creates an ActionIgnoredEvent.
func NewActionIgnoredEvent(buttonKey string, actionType element.ActionType, reason string) ActionIgnoredEvent {
	return ActionIgnoredEvent{
		baseEvent:  newBaseEvent(TypeActionIgnored),
		ButtonKey:  buttonKey,
		ActionType: actionType,
		Reason:     reason,
	}
}

// -----------------------------------------------------------------------------
// Bootstrap Events
// -----------------------------------------------------------------------------

// BootstrapLoadedEvent is emitted once the definition document is decoded.
type BootstrapLoadedEvent struct {
	baseEvent
	Source   string
	Title    string
	Attempts int
}

// NewBootstrapLoadedEvent creates a BootstrapLoadedEvent.
func NewBootstrapLoadedEvent(source, title string, attempts int) BootstrapLoadedEvent {
	return BootstrapLoadedEvent{
		baseEvent: newBaseEvent(TypeBootstrapLoaded),
		Source:    source,
		Title:     title,
		Attempts:  attempts,
	}
}

// BootstrapFailedEvent is emitted when loading gave up.
type BootstrapFailedEvent struct {
	baseEvent
	Source   string
	Attempts int
	Err      error
}

// NewBootstrapFailedEvent creates a BootstrapFailedEvent.
func NewBootstrapFailedEvent(source string, attempts int, err error) BootstrapFailedEvent {
	return BootstrapFailedEvent{
		baseEvent: newBaseEvent(TypeBootstrapFailed),
		Source:    source,
		Attempts:  attempts,
		Err:       err,
	}
}

// FetchRetryEvent is emitted before sleeping between fetch attempts.
type FetchRetryEvent struct {
	baseEvent
	Source  string
	Attempt int
	Delay   time.Duration
	Err     error
}

// NewFetchRetryEvent creates a FetchRetryEvent.
func NewFetchRetryEvent(source string, attempt int, delay time.Duration, err error) FetchRetryEvent {
	return FetchRetryEvent{
		baseEvent: newBaseEvent(TypeFetchRetry),
		Source:    source,
		Attempt:   attempt,
		Delay:     delay,
		Err:       err,
	}
}
