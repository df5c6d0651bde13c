// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ui

import "fmt"

// Node is anything that can appear in a rendered tree.
type Node interface {
	isNode()
}

// Element is a tag with props and children.
type Element struct {
	Tag      string
	Props    Props
	Children []Node
}

// Text is an escaped text node.
type Text string

// Fragment groups nodes without a wrapping element.
type Fragment []Node

func (*Element) isNode() {}
func (Text) isNode()     {}
func (Fragment) isNode() {}

// El builds an element. Nil children are dropped when rendering.
func El(tag string, props Props, children ...Node) *Element {
	return &Element{Tag: tag, Props: props, Children: children}
}

// Textf formats a text node.
func Textf(format string, args ...any) Text {
	return Text(fmt.Sprintf(format, args...))
}

// When returns n if cond holds, otherwise nil.
func When(cond bool, n Node) Node {
	if cond {
		return n
	}
	return nil
}

// Walk visits every element under n in document order. Returning false
// from fn stops the walk.
func Walk(n Node, fn func(*Element) bool) bool {
	switch v := n.(type) {
	case *Element:
		if v == nil {
			return true
		}
		if !fn(v) {
			return false
		}
		for _, c := range v.Children {
			if !Walk(c, fn) {
				return false
			}
		}
	case Fragment:
		for _, c := range v {
			if !Walk(c, fn) {
				return false
			}
		}
	}
	return true
}

// Find returns the first element under n whose id attribute equals id.
func Find(n Node, id string) *Element {
	var found *Element
	Walk(n, func(el *Element) bool {
		if el.Props.ID() == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// Attach hands every element that carries a ref to its ref callback.
// Called once per render after the tree is built.
func Attach(n Node) {
	Walk(n, func(el *Element) bool {
		if el.Props.Ref != nil {
			el.Props.Ref(el)
		}
		return true
	})
}

func compact(nodes []Node) []Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if el, ok := n.(*Element); ok && el == nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
