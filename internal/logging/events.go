package logging

import (
	"github.com/Iron-Ham/tileboard/internal/event"
)

// Observe traces every event published on bus at DEBUG level until the
// returned function is called. Components log their own failures; this is
// the record of what happened between them.
func (l *Logger) Observe(bus *event.Bus) (stop func()) {
	log := l.WithComponent("events")
	id := bus.SubscribeAll(func(e event.Event) {
		log.Debug(e.EventType(), eventAttrs(e)...)
	})
	return func() { bus.Unsubscribe(id) }
}

func eventAttrs(e event.Event) []any {
	switch ev := e.(type) {
	case event.ElementRegisteredEvent:
		return []any{"element_key", ev.Key, "type", string(ev.Type)}
	case event.ElementChangedEvent:
		return []any{"element_key", ev.Key, "type", string(ev.Current.Type())}
	case event.ActionDispatchedEvent:
		return []any{"button_key", ev.ButtonKey, "action", string(ev.ActionType), "reference_key", ev.ReferenceKey}
	case event.ActionIgnoredEvent:
		return []any{"button_key", ev.ButtonKey, "action", string(ev.ActionType), "reason", ev.Reason}
	case event.FetchRetryEvent:
		return []any{"source", ev.Source, "attempt", ev.Attempt, "delay_ms", ev.Delay.Milliseconds(), "error", errString(ev.Err)}
	case event.BootstrapLoadedEvent:
		return []any{"source", ev.Source, "title", ev.Title, "attempts", ev.Attempts}
	case event.BootstrapFailedEvent:
		return []any{"source", ev.Source, "attempts", ev.Attempts, "error", errString(ev.Err)}
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
