// Package action interprets button actions against an element registry.
package action

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/tileboard/internal/element"
	"github.com/Iron-Ham/tileboard/internal/errors"
	"github.com/Iron-Ham/tileboard/internal/event"
	"github.com/Iron-Ham/tileboard/internal/logging"
	"github.com/Iron-Ham/tileboard/internal/registry"
)

// Policy decides what an update does when its reference key is absent.
type Policy string

const (
	// PolicyReject leaves the registry untouched and returns
	// ErrUnknownReference.
	PolicyReject Policy = "reject"

	// PolicyCreate stores a synthetic element holding only the key and the
	// update's fields. It renders as nothing until a later update supplies
	// a known type.
	PolicyCreate Policy = "create"
)

// Policies returns the valid policy names.
func Policies() []string {
	return []string{string(PolicyReject), string(PolicyCreate)}
}

// ParsePolicy converts a config value to a Policy. Matching is
// case-insensitive; an empty string is PolicyReject.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyReject:
		return PolicyReject, nil
	case PolicyCreate:
		return PolicyCreate, nil
	}
	return "", fmt.Errorf("unknown missing-reference policy %q (valid: %s)", s, strings.Join(Policies(), ", "))
}

// Dispatcher applies actions to a registry.
type Dispatcher struct {
	store  registry.Store
	policy Policy
	logger *logging.Logger
	bus    *event.Bus
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPolicy sets the missing-reference policy. The default is PolicyReject.
func WithPolicy(p Policy) Option {
	return func(d *Dispatcher) { d.policy = p }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) { d.logger = l.WithComponent("action") }
}

// WithBus publishes dispatch outcomes on bus.
func WithBus(bus *event.Bus) Option {
	return func(d *Dispatcher) { d.bus = bus }
}

// New creates a Dispatcher writing to store.
func New(store registry.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		policy: PolicyReject,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Policy returns the missing-reference policy in effect.
func (d *Dispatcher) Policy() Policy {
	return d.policy
}

// Dispatch interprets the action declared by the button with buttonKey.
// Actions of an unknown type are ignored and return nil. An update that
// was not applied returns an *errors.UpdateError; the registry is left
// unchanged in that case.
func (d *Dispatcher) Dispatch(buttonKey string, a element.Action) error {
	switch a.Type {
	case element.ActionUpdate:
		return d.update(buttonKey, a)
	default:
		d.logger.Debug("ignoring action of unknown type",
			"button_key", buttonKey,
			"action", string(a.Type))
		d.publish(event.NewActionIgnoredEvent(buttonKey, a.Type, "unknown action type"))
		return nil
	}
}

func (d *Dispatcher) update(buttonKey string, a element.Action) error {
	ref := a.ReferenceElementKey
	if ref == "" {
		return d.reject(buttonKey, a,
			errors.NewUpdateError("update has no referenceElementKey", errors.ErrUnknownReference).
				WithButton(buttonKey))
	}

	if d.policy != PolicyCreate {
		if _, ok := d.store.Lookup(ref); !ok {
			return d.reject(buttonKey, a,
				errors.NewUpdateError("no element with that key", errors.ErrUnknownReference).
					WithButton(buttonKey).
					WithReference(ref))
		}
	}

	merged, err := d.store.MergeUpdate(ref, a.Value)
	if err != nil {
		var updateErr *errors.UpdateError
		if !errors.As(err, &updateErr) {
			updateErr = errors.NewUpdateError("merge failed", err).WithReference(ref)
		}
		return d.reject(buttonKey, a, updateErr.WithButton(buttonKey))
	}

	d.logger.Debug("update applied",
		"button_key", buttonKey,
		"reference_key", ref,
		"type", string(merged.Type()))
	d.publish(event.NewActionDispatchedEvent(buttonKey, a))
	return nil
}

func (d *Dispatcher) reject(buttonKey string, a element.Action, err *errors.UpdateError) error {
	d.logger.Warn("update rejected",
		"button_key", buttonKey,
		"reference_key", a.ReferenceElementKey,
		"error", err.Error())
	d.publish(event.NewActionIgnoredEvent(buttonKey, a.Type, err.Error()))
	return err
}

func (d *Dispatcher) publish(e event.Event) {
	if d.bus != nil {
		d.bus.Publish(e)
	}
}
