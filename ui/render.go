// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EventsAttr lists the event types an element handles so the browser
// bridge knows which elements to report.
const EventsAttr = "data-events"

// Render writes n as HTML.
func Render(w io.Writer, n Node) error {
	for _, hn := range toHTML(n) {
		if err := html.Render(w, hn); err != nil {
			return fmt.Errorf("render %s: %w", hn.Data, err)
		}
	}
	return nil
}

// RenderDocument writes a full HTML document with doctype.
func RenderDocument(w io.Writer, root Node) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
		return err
	}
	return Render(w, root)
}

// RenderString renders n into a string, mostly for tests.
func RenderString(n Node) (string, error) {
	var b strings.Builder
	if err := Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

func toHTML(n Node) []*html.Node {
	switch v := n.(type) {
	case nil:
		return nil
	case Text:
		return []*html.Node{{Type: html.TextNode, Data: string(v)}}
	case Fragment:
		var out []*html.Node
		for _, c := range v {
			out = append(out, toHTML(c)...)
		}
		return out
	case *Element:
		if v == nil {
			return nil
		}
		hn := &html.Node{
			Type:     html.ElementNode,
			Data:     v.Tag,
			DataAtom: atom.Lookup([]byte(v.Tag)),
			Attr:     attributes(v.Props),
		}
		for _, c := range v.Children {
			for _, child := range toHTML(c) {
				hn.AppendChild(child)
			}
		}
		return []*html.Node{hn}
	}
	return nil
}

func attributes(p Props) []html.Attribute {
	keys := make([]string, 0, len(p.Attrs))
	for k := range p.Attrs {
		if k == "class" || k == "style" || k == EventsAttr {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]html.Attribute, 0, len(keys)+3)
	for _, k := range keys {
		attrs = append(attrs, html.Attribute{Key: k, Val: p.Attrs[k]})
	}
	if p.Class != "" {
		attrs = append(attrs, html.Attribute{Key: "class", Val: p.Class})
	}
	if style := styleString(p.Style); style != "" {
		attrs = append(attrs, html.Attribute{Key: "style", Val: style})
	}
	if events := eventTypes(p.Handlers); events != "" {
		attrs = append(attrs, html.Attribute{Key: EventsAttr, Val: events})
	}
	return attrs
}

func styleString(style map[string]string) string {
	if len(style) == 0 {
		return ""
	}
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(style[k])
		b.WriteString(";")
	}
	return b.String()
}

func eventTypes(handlers map[string]Handler) string {
	var types []string
	for name, h := range handlers {
		if h == nil || !IsHandlerName(name) {
			continue
		}
		t := strings.TrimPrefix(name, "on")
		types = append(types, strings.ToLower(t[:1])+t[1:])
	}
	sort.Strings(types)
	return strings.Join(types, " ")
}
