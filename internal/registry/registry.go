// Package registry holds the authoritative current state of every mounted
// element, keyed by elementKey.
//
// The definition tree supplied at bootstrap is only the initial shape. Once a
// key is registered, the registry's copy wins: renderers resolve every node
// against it and buttons rewrite it through MergeUpdate. Entries are never
// removed, so a node that unmounts and remounts still sees prior edits.
package registry

import (
	"sync"

	"github.com/Iron-Ham/tileboard/internal/element"
	"github.com/Iron-Ham/tileboard/internal/errors"
	"github.com/Iron-Ham/tileboard/internal/event"
)

// Store is the capability the renderer and dispatcher need from a registry.
type Store interface {
	// Lookup returns the current element for key.
	Lookup(key string) (element.Element, bool)

	// Register stores el under its key unless the key is already present.
	// It reports whether el was stored. First write wins.
	Register(el element.Element) bool

	// MergeUpdate overlays patch onto the entry for key and stores the
	// result. When key is absent the result is a synthetic element holding
	// only the key and the patched fields.
	MergeUpdate(key string, patch element.Record) (element.Element, error)
}

// Watcher is notified with the new element after a merge-update of the key
// it watches.
type Watcher func(current element.Element)

// Unwatch removes a watcher.
type Unwatch func()

// Registry is the in-memory Store. It is safe for concurrent use; a merge is
// swapped in under the write lock so no reader observes a partial update.
// Merge events are published in the order the merges were swapped in.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]element.Element
	order   []string
	merges  uint64 // merges swapped in, guarded by mu
	bus     *event.Bus

	// published counts merges whose events are out. Publishing waits on
	// turn rather than holding mu, so handlers may call Lookup.
	pubMu     sync.Mutex
	turn      *sync.Cond
	published uint64
}

var _ Store = (*Registry)(nil)

// New creates an empty registry publishing on bus. A nil bus gets a private one.
func New(bus *event.Bus) *Registry {
	if bus == nil {
		bus = event.NewBus()
	}
	r := &Registry{
		entries: make(map[string]element.Element),
		bus:     bus,
	}
	r.turn = sync.NewCond(&r.pubMu)
	return r
}

// Bus returns the bus change events are published on.
func (r *Registry) Bus() *event.Bus {
	return r.bus
}

// Lookup returns the current element for key.
func (r *Registry) Lookup(key string) (element.Element, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	el, ok := r.entries[key]
	return el, ok
}

// Register stores el unless its key is already present or empty.
func (r *Registry) Register(el element.Element) bool {
	if el == nil || el.Key() == "" {
		return false
	}

	r.mu.Lock()
	if _, exists := r.entries[el.Key()]; exists {
		r.mu.Unlock()
		return false
	}
	r.entries[el.Key()] = el
	r.order = append(r.order, el.Key())
	r.mu.Unlock()

	r.bus.Publish(event.NewElementRegisteredEvent(el))
	return true
}

// MergeUpdate overlays patch onto the entry for key. elementKey and type
// are preserved from the current entry; patch values for them are ignored,
// except that an entry without a type takes the one in patch.
// If the merged record no longer decodes, the entry is left unchanged.
//
// Events for concurrent merges reach subscribers in merge order. A handler
// must not merge into the registry it is being notified by.
func (r *Registry) MergeUpdate(key string, patch element.Record) (element.Element, error) {
	if key == "" {
		return nil, errors.NewUpdateError("empty reference key", errors.ErrUnknownReference)
	}

	r.mu.Lock()
	previous, exists := r.entries[key]

	var base element.Record
	if exists {
		base = previous.Record()
	} else {
		base = element.NewRecord(key)
	}

	merged, err := element.DecodeRecord(element.Overlay(base, patch))
	if err != nil {
		r.mu.Unlock()
		return nil, errors.NewUpdateError("merged element does not decode", err).WithReference(key)
	}

	r.entries[key] = merged
	if !exists {
		r.order = append(r.order, key)
	}
	r.merges++
	ticket := r.merges
	r.mu.Unlock()

	r.pubMu.Lock()
	defer func() {
		r.published = ticket
		r.turn.Broadcast()
		r.pubMu.Unlock()
	}()
	for r.published != ticket-1 {
		r.turn.Wait()
	}
	if !exists {
		r.bus.Publish(event.NewElementRegisteredEvent(merged))
	}
	r.bus.Publish(event.NewElementChangedEvent(key, previous, merged))
	return merged, nil
}

// Watch calls fn after every merge-update of key. Registration of the key
// does not trigger fn.
func (r *Registry) Watch(key string, fn Watcher) Unwatch {
	id := r.bus.SubscribeKey(event.TypeElementChanged, key, func(e event.Event) {
		if changed, ok := e.(event.ElementChangedEvent); ok {
			fn(changed.Current)
		}
	})
	return func() { r.bus.Unsubscribe(id) }
}

// Keys returns every registered key in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
