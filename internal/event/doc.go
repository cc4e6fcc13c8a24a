// Package event provides a pub-sub event bus for decoupled communication
// between the tileboard registry, renderer, dispatcher and TUI.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Keyed]: Optional interface for events about a single element
//   - [Bus]: Synchronous pub-sub dispatcher with type, per-key and wildcard subscriptions
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Registry:
//   - [ElementRegisteredEvent]: a key entered the registry
//   - [ElementChangedEvent]: a merge-update stored a new element (keyed)
//
// Actions:
//   - [ActionDispatchedEvent]: a button action was applied
//   - [ActionIgnoredEvent]: a button action was unknown or rejected
//
// Bootstrap:
//   - [BootstrapLoadedEvent], [BootstrapFailedEvent], [FetchRetryEvent]
//
// # Keyed Subscriptions
//
// Mounted tiles subscribe to changes of their own key only:
//
//	id := bus.SubscribeKey(event.TypeElementChanged, "t1", func(e event.Event) {
//	    changed := e.(event.ElementChangedEvent)
//	    node.resolve(changed.Current)
//	})
//	defer bus.Unsubscribe(id)
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called
// synchronously on the publishing goroutine, outside the bus lock, so a
// handler may subscribe or unsubscribe. A panicking handler does not prevent
// the other handlers from being called.
package event
