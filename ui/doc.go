// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ui is the server-side element tree the pages are built from.

# Elements

A Node is an *Element, a Text or a Fragment. Elements carry Props: an id,
a class list, inline style, attributes, event handlers and an optional
ref. Render writes a tree as HTML through golang.org/x/net/html, with
attributes in a stable order so the output is reproducible:

	<button id="b" class="flex" style="color: red;" data-events="click">

The data-events attribute lists the handled event types. The browser
bridge uses it to decide which events to post back.

# Props merging

MergeProps combines the props of a forwarding wrapper with the props of
the child it forwards onto. The child wins for attributes and style keys.
Classes go through classnames.Merge, where the later conflicting utility
wins. Event handlers and refs present on both run wrapper first, then
child. Handlers keys that are not event names take the child's value.

# Slot

Slot renders its single child element with the slot's props merged in.
Components use it for AsChild: a Button with AsChild renders as the link
it wraps instead of a button.

# State

State is a value that is either owned by the component (uncontrolled) or
supplied by its parent together with a change callback (controlled).
Sync is called on every render with the parent's value; a nil value
means uncontrolled. Set updates an uncontrolled value and always reports
the new value to the callback. A controlled state only changes when the
parent passes the value back through Sync.

Action tracks the busy state of an operation started from a control. The
busy state lasts at least the configured minimum so buttons do not
flicker for fast requests.

# Events

Dispatch delivers an Event to the element with the target id in any of
the given roots. Disabled elements receive nothing.
*/
package ui
