package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Iron-Ham/tileboard/internal/element"
	"github.com/Iron-Ham/tileboard/internal/event"
)

func TestObserve(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelDebug)
	bus := event.NewBus()

	stop := logger.Observe(bus)

	el, err := element.Decode([]byte(`{"elementKey": "t1", "type": "textTile"}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	bus.Publish(event.NewElementRegisteredEvent(el))
	bus.Publish(event.NewElementChangedEvent("t1", nil, el))
	bus.Publish(event.NewFetchRetryEvent("http://x", 1, 500*time.Millisecond, errors.New("refused")))
	bus.Publish(event.NewBootstrapFailedEvent("http://x", 3, nil))

	stop()
	bus.Publish(event.NewElementChangedEvent("t1", nil, el))

	got := entries(t, buf.Bytes())
	var msgs []string
	for _, entry := range got {
		msgs = append(msgs, entry["msg"].(string))
		if entry["level"] != "DEBUG" || entry["component"] != "events" {
			t.Errorf("entry %v should be a DEBUG events entry", entry)
		}
	}
	want := []string{
		event.TypeElementRegistered,
		event.TypeElementChanged,
		event.TypeFetchRetry,
		event.TypeBootstrapFailed,
	}
	if diff := cmp.Diff(want, msgs); diff != "" {
		t.Fatalf("traced events mismatch (-want +got):\n%s", diff)
	}
	if got[1]["element_key"] != "t1" {
		t.Errorf("element_key = %v, want t1", got[1]["element_key"])
	}
	if got[2]["delay_ms"] != float64(500) {
		t.Errorf("delay_ms = %v, want 500", got[2]["delay_ms"])
	}
}

func TestObserve_FilteredAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	bus := event.NewBus()
	NewWriterLogger(&buf, LevelInfo).Observe(bus)

	bus.Publish(event.NewBootstrapLoadedEvent("file.json", "Demo", 1))

	if buf.Len() != 0 {
		t.Errorf("trace should be filtered at INFO, got %s", buf.String())
	}
}
