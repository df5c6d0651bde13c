// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ui

import (
	"maps"
	"regexp"
	"strings"

	"github.com/danielhkuo/quickly-vote/classnames"
)

// Handler reacts to an event dispatched to an element.
type Handler func(*Event)

// Ref receives the element it is attached to each time the tree is attached.
type Ref func(*Element)

// Props is the renderable property set of an element. Class, Style, Ref
// and Handlers have merge rules of their own; everything in Attrs is a
// plain override.
type Props struct {
	Class    string
	Style    map[string]string
	Ref      Ref
	Handlers map[string]Handler
	Attrs    map[string]string
}

var handlerNameRe = regexp.MustCompile(`^on[A-Z]`)

// IsHandlerName reports whether name follows the onXxx handler convention.
func IsHandlerName(name string) bool {
	return handlerNameRe.MatchString(name)
}

// HandlerName maps an event type such as "click" to its prop name "onClick".
func HandlerName(eventType string) string {
	if eventType == "" {
		return ""
	}
	return "on" + strings.ToUpper(eventType[:1]) + eventType[1:]
}

// ID returns the id attribute.
func (p Props) ID() string {
	return p.Attrs["id"]
}

// Attr returns a copy of p with attribute key set to value.
func (p Props) Attr(key, value string) Props {
	out := p.clone()
	if out.Attrs == nil {
		out.Attrs = map[string]string{}
	}
	out.Attrs[key] = value
	return out
}

// WithID is shorthand for Attr("id", id).
func (p Props) WithID(id string) Props {
	return p.Attr("id", id)
}

// On returns a copy of p with h bound to eventType.
func (p Props) On(eventType string, h Handler) Props {
	out := p.clone()
	if out.Handlers == nil {
		out.Handlers = map[string]Handler{}
	}
	out.Handlers[HandlerName(eventType)] = h
	return out
}

// Handler returns the handler bound to eventType, or nil.
func (p Props) Handler(eventType string) Handler {
	return p.Handlers[HandlerName(eventType)]
}

func (p Props) clone() Props {
	return Props{
		Class:    p.Class,
		Style:    maps.Clone(p.Style),
		Ref:      p.Ref,
		Handlers: maps.Clone(p.Handlers),
		Attrs:    maps.Clone(p.Attrs),
	}
}

// MergeProps combines the props of a forwarding wrapper with the props of
// the child it forwards onto. Child values win for plain attributes and
// style keys. Classes are merged with later conflicting utilities winning.
// Event handlers present on both run wrapper first, then child; any other
// Handlers key is replaced by the child's value. Refs present on
// both receive the element in the same order.
func MergeProps(wrapper, child Props) Props {
	merged := wrapper.clone()

	if len(child.Attrs) > 0 {
		if merged.Attrs == nil {
			merged.Attrs = make(map[string]string, len(child.Attrs))
		}
		maps.Copy(merged.Attrs, child.Attrs)
	}

	merged.Class = classnames.Merge(wrapper.Class, child.Class)

	if len(child.Style) > 0 {
		if merged.Style == nil {
			merged.Style = make(map[string]string, len(child.Style))
		}
		maps.Copy(merged.Style, child.Style)
	}

	for name, ch := range child.Handlers {
		if ch == nil {
			continue
		}
		if merged.Handlers == nil {
			merged.Handlers = map[string]Handler{}
		}
		if !IsHandlerName(name) {
			// Not an event slot: the child's value replaces the wrapper's.
			merged.Handlers[name] = ch
			continue
		}
		merged.Handlers[name] = ChainHandlers(wrapper.Handlers[name], ch)
	}

	merged.Ref = MergeRefs(wrapper.Ref, child.Ref)
	return merged
}

// ChainHandlers returns a handler that runs every non-nil handler in order.
// Later handlers run even when an earlier one prevented the default.
func ChainHandlers(handlers ...Handler) Handler {
	var live []Handler
	for _, h := range handlers {
		if h != nil {
			live = append(live, h)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(e *Event) {
		for _, h := range live {
			h(e)
		}
	}
}

// MergeRefs returns one ref that forwards the element to every non-nil ref.
func MergeRefs(refs ...Ref) Ref {
	var live []Ref
	for _, r := range refs {
		if r != nil {
			live = append(live, r)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(el *Element) {
		for _, r := range live {
			r(el)
		}
	}
}
