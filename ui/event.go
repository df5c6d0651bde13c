// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ui

import "context"

// Event is delivered to element handlers.
type Event struct {
	Type   string
	Key    string
	Value  string
	Target *Element

	ctx              context.Context
	defaultPrevented bool
}

// Context is the context of the request that delivered the event.
func (e *Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// SetContext attaches ctx to the event before it is dispatched.
func (e *Event) SetContext(ctx context.Context) {
	e.ctx = ctx
}

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether a handler called PreventDefault.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// Dispatch delivers ev to the element with id targetID in any of roots.
// It reports whether a handler for ev.Type was found and run.
func Dispatch(targetID string, ev *Event, roots ...Node) bool {
	for _, root := range roots {
		el := Find(root, targetID)
		if el == nil {
			continue
		}
		h := el.Props.Handler(ev.Type)
		if h == nil {
			return false
		}
		if _, disabled := el.Props.Attrs["disabled"]; disabled {
			return false
		}
		ev.Target = el
		h(ev)
		return true
	}
	return false
}
