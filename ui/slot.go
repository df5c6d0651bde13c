// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ui

import "log/slog"

// Slot forwards props onto its single child element instead of rendering
// an element of its own. It renders nothing unless it receives exactly one
// child and that child is an element.
func Slot(props Props, children ...Node) Node {
	children = compact(children)
	if len(children) != 1 {
		if len(children) > 1 {
			slog.Warn("slot expects exactly one child", "children", len(children))
		}
		return nil
	}

	el, ok := children[0].(*Element)
	if !ok {
		return nil
	}
	return &Element{
		Tag:      el.Tag,
		Props:    MergeProps(props, el.Props),
		Children: el.Children,
	}
}

// As renders tag with props, or forwards props onto the single child when
// asChild is set.
func As(asChild bool, tag string, props Props, children ...Node) Node {
	if asChild {
		return Slot(props, children...)
	}
	return El(tag, props, children...)
}
