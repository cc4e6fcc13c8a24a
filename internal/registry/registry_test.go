package registry

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Iron-Ham/tileboard/internal/element"
	"github.com/Iron-Ham/tileboard/internal/errors"
	"github.com/Iron-Ham/tileboard/internal/event"
)

func mustDecode(t *testing.T, s string) element.Element {
	t.Helper()
	el, err := element.Decode([]byte(s))
	if err != nil {
		t.Fatalf("Decode(%s) error = %v", s, err)
	}
	return el
}

func textOf(t *testing.T, el element.Element) *element.TextTile {
	t.Helper()
	text, ok := el.(*element.TextTile)
	if !ok {
		t.Fatalf("element is %T, want *element.TextTile", el)
	}
	return text
}

func TestRegister_FirstWriteWins(t *testing.T) {
	reg := New(nil)
	first := mustDecode(t, `{"elementKey": "t1", "type": "textTile", "text": "first"}`)
	second := mustDecode(t, `{"elementKey": "t1", "type": "textTile", "text": "second"}`)

	if !reg.Register(first) {
		t.Fatal("first Register() = false, want true")
	}
	if reg.Register(second) {
		t.Error("second Register() = true, want false")
	}

	got, ok := reg.Lookup("t1")
	if !ok {
		t.Fatal("Lookup(t1) not found")
	}
	if textOf(t, got).Text != "first" {
		t.Errorf("Lookup(t1).Text = %q, want %q", textOf(t, got).Text, "first")
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegister_AfterMergeIsNoop(t *testing.T) {
	reg := New(nil)
	reg.Register(mustDecode(t, `{"elementKey": "t1", "type": "textTile", "text": "Original"}`))
	if _, err := reg.MergeUpdate("t1", element.Record{"text": json.RawMessage(`"Updated"`)}); err != nil {
		t.Fatalf("MergeUpdate() error = %v", err)
	}

	// A remount re-registers the bootstrap copy; the edit must survive.
	reg.Register(mustDecode(t, `{"elementKey": "t1", "type": "textTile", "text": "Original"}`))

	got, _ := reg.Lookup("t1")
	if textOf(t, got).Text != "Updated" {
		t.Errorf("Text = %q, want %q", textOf(t, got).Text, "Updated")
	}
}

func TestRegister_RejectsEmptyKey(t *testing.T) {
	reg := New(nil)
	if reg.Register(mustDecode(t, `{"type": "textTile"}`)) {
		t.Error("Register() of a keyless element = true, want false")
	}
	if reg.Register(nil) {
		t.Error("Register(nil) = true, want false")
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestMergeUpdate(t *testing.T) {
	tests := []struct {
		name      string
		patch     string
		wantTitle string
		wantText  string
		wantColor element.Color
	}{
		{"replace one field", `{"text": "Updated"}`, "Head", "Updated", element.ColorDark},
		{"replace several fields", `{"title": "New", "color": "light"}`, "New", "Original", element.ColorLight},
		{"empty patch", `{}`, "Head", "Original", element.ColorDark},
		{"key and type are ignored", `{"elementKey": "other", "type": "imageTile", "text": "x"}`, "Head", "x", element.ColorDark},
		{"null clears a field", `{"title": null}`, "", "Original", element.ColorDark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := New(nil)
			reg.Register(mustDecode(t, `{"elementKey": "t1", "type": "textTile", "title": "Head", "text": "Original", "color": "dark"}`))

			var patch element.Record
			if err := json.Unmarshal([]byte(tt.patch), &patch); err != nil {
				t.Fatalf("bad patch: %v", err)
			}

			merged, err := reg.MergeUpdate("t1", patch)
			if err != nil {
				t.Fatalf("MergeUpdate() error = %v", err)
			}

			text := textOf(t, merged)
			if text.Key() != "t1" || text.Type() != element.TypeText {
				t.Errorf("identity changed: key=%q type=%q", text.Key(), text.Type())
			}
			got := []string{text.Title, text.Text, string(text.Color)}
			want := []string{tt.wantTitle, tt.wantText, string(tt.wantColor)}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("merged fields mismatch (-want +got):\n%s", diff)
			}

			stored, _ := reg.Lookup("t1")
			if stored != merged {
				t.Error("Lookup() should return the element MergeUpdate returned")
			}
		})
	}
}

func TestMergeUpdate_MissingKeySynthesizes(t *testing.T) {
	reg := New(nil)

	merged, err := reg.MergeUpdate("ghost", element.Record{"text": json.RawMessage(`"boo"`)})
	if err != nil {
		t.Fatalf("MergeUpdate() error = %v", err)
	}
	if _, ok := merged.(*element.Unknown); !ok {
		t.Errorf("synthetic element = %T, want *element.Unknown", merged)
	}
	if merged.Key() != "ghost" {
		t.Errorf("Key() = %q, want %q", merged.Key(), "ghost")
	}
	if got := string(merged.Record()["text"]); got != `"boo"` {
		t.Errorf("text = %s, want %q", got, `"boo"`)
	}
	if _, ok := reg.Lookup("ghost"); !ok {
		t.Error("synthetic element should be stored")
	}
}

func TestMergeUpdate_UndecodableLeavesEntry(t *testing.T) {
	reg := New(nil)
	reg.Register(mustDecode(t, `{"elementKey": "t1", "type": "textTile", "text": "Original"}`))

	_, err := reg.MergeUpdate("t1", element.Record{"text": json.RawMessage(`42`)})
	if err == nil {
		t.Fatal("MergeUpdate() error = nil, want error")
	}
	var updateErr *errors.UpdateError
	if !errors.As(err, &updateErr) || updateErr.ReferenceKey != "t1" {
		t.Errorf("error = %v, want *UpdateError for t1", err)
	}
	if !errors.Is(err, errors.ErrInvalidElement) {
		t.Error("error should wrap the decode failure")
	}

	got, _ := reg.Lookup("t1")
	if textOf(t, got).Text != "Original" {
		t.Errorf("Text = %q, want unchanged %q", textOf(t, got).Text, "Original")
	}
}

func TestMergeUpdate_EmptyKey(t *testing.T) {
	reg := New(nil)
	_, err := reg.MergeUpdate("", element.Record{})
	if !errors.Is(err, errors.ErrUnknownReference) {
		t.Errorf("error = %v, want ErrUnknownReference", err)
	}
}

func TestWatch(t *testing.T) {
	reg := New(nil)
	reg.Register(mustDecode(t, `{"elementKey": "t1", "type": "textTile", "text": "a"}`))
	reg.Register(mustDecode(t, `{"elementKey": "t2", "type": "textTile", "text": "b"}`))

	var seen []string
	unwatch := reg.Watch("t1", func(current element.Element) {
		// Watchers run after the swap, so Lookup agrees with the argument.
		stored, _ := reg.Lookup("t1")
		if stored != current {
			t.Error("watcher observed a registry that does not hold the new element")
		}
		seen = append(seen, textOf(t, current).Text)
	})

	reg.MergeUpdate("t2", element.Record{"text": json.RawMessage(`"ignored"`)})
	reg.MergeUpdate("t1", element.Record{"text": json.RawMessage(`"one"`)})
	unwatch()
	reg.MergeUpdate("t1", element.Record{"text": json.RawMessage(`"two"`)})

	if diff := cmp.Diff([]string{"one"}, seen); diff != "" {
		t.Errorf("watcher calls mismatch (-want +got):\n%s", diff)
	}
}

func TestEvents(t *testing.T) {
	bus := event.NewBus()
	reg := New(bus)

	var types []string
	bus.SubscribeAll(func(e event.Event) {
		types = append(types, e.EventType())
	})

	reg.Register(mustDecode(t, `{"elementKey": "t1", "type": "textTile"}`))
	reg.Register(mustDecode(t, `{"elementKey": "t1", "type": "textTile"}`))
	reg.MergeUpdate("t1", element.Record{})
	reg.MergeUpdate("new", element.Record{})

	want := []string{
		event.TypeElementRegistered,
		event.TypeElementChanged,
		event.TypeElementRegistered,
		event.TypeElementChanged,
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if reg.Bus() != bus {
		t.Error("Bus() should return the bus passed to New")
	}
}

func TestKeys_RegistrationOrder(t *testing.T) {
	reg := New(nil)
	for _, k := range []string{"c", "a", "b"} {
		reg.Register(mustDecode(t, fmt.Sprintf(`{"elementKey": %q, "type": "textTile"}`, k)))
	}
	reg.MergeUpdate("z", element.Record{})

	if diff := cmp.Diff([]string{"c", "a", "b", "z"}, reg.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeUpdate_NoTornReads(t *testing.T) {
	reg := New(nil)
	reg.Register(mustDecode(t, `{"elementKey": "t1", "type": "textTile", "title": "0", "text": "0"}`))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			v, _ := json.Marshal(fmt.Sprint(i))
			reg.MergeUpdate("t1", element.Record{"title": v, "text": v})
		})
		wg.Go(func() {
			el, _ := reg.Lookup("t1")
			text := el.(*element.TextTile)
			if text.Title != text.Text {
				t.Errorf("torn read: title=%q text=%q", text.Title, text.Text)
			}
		})
	}
	wg.Wait()
}

func TestMergeUpdate_ConcurrentEventsInOrder(t *testing.T) {
	bus := event.NewBus()
	reg := New(bus)
	reg.Register(mustDecode(t, `{"elementKey": "t1", "type": "textTile", "text": "start"}`))

	var mu sync.Mutex
	var changes []event.ElementChangedEvent
	bus.SubscribeKey(event.TypeElementChanged, "t1", func(e event.Event) {
		// Handlers may read the registry while a merge is waiting its turn
		_, _ = reg.Lookup("t1")
		mu.Lock()
		changes = append(changes, e.(event.ElementChangedEvent))
		mu.Unlock()
	})

	var seen []string
	reg.Watch("t1", func(current element.Element) {
		text, _ := current.(*element.TextTile)
		mu.Lock()
		seen = append(seen, text.Text)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			v, _ := json.Marshal(fmt.Sprint(i))
			if _, err := reg.MergeUpdate("t1", element.Record{"text": v}); err != nil {
				t.Errorf("MergeUpdate() error = %v", err)
			}
		})
	}
	wg.Wait()

	if len(changes) != 50 {
		t.Fatalf("got %d change events, want 50", len(changes))
	}
	// Each event continues from the one before it
	for i := 1; i < len(changes); i++ {
		if changes[i].Previous != changes[i-1].Current {
			t.Fatalf("event %d does not follow event %d", i, i-1)
		}
	}

	stored, _ := reg.Lookup("t1")
	if last := seen[len(seen)-1]; last != textOf(t, stored).Text {
		t.Errorf("last watcher value = %q, registry holds %q", last, textOf(t, stored).Text)
	}
}
