// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ui

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRenderString(t *testing.T) {
	tree := El("div", Props{Class: "flex", Style: map[string]string{"width": "50%", "color": "red"}}.WithID("root"),
		El("button", Props{}.WithID("b").On("click", func(*Event) {}), Text("<Hi & bye>")),
		nil,
		Fragment{Text("a"), Text("b")},
	)

	got, err := RenderString(tree)
	if err != nil {
		t.Fatal(err)
	}

	expected := `<div id="root" class="flex" style="color: red; width: 50%;">` +
		`<button id="b" data-events="click">&lt;Hi &amp; bye&gt;</button>ab</div>`
	if got != expected {
		t.Errorf("Unexpected HTML\nexpected: %s\n     got: %s", expected, got)
	}
}

func TestRenderDocument(t *testing.T) {
	var b strings.Builder
	if err := RenderDocument(&b, El("html", Props{}, El("body", Props{}))); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(b.String(), "<!DOCTYPE html><html>") {
		t.Errorf("Unexpected document %s", b.String())
	}
}

type ctxKey struct{}

func TestDispatch(t *testing.T) {
	var got *Event
	handler := func(e *Event) { got = e }

	page := El("main", Props{},
		El("button", Props{}.WithID("ok").On("click", handler)),
		El("button", Props{}.WithID("off").Attr("disabled", "").On("click", handler)),
		El("span", Props{}.WithID("plain")),
	)
	portal := Fragment{El("div", Props{}.WithID("dialog-close").On("click", handler))}

	t.Run("delivers to the target", func(t *testing.T) {
		ev := &Event{Type: "click"}
		ev.SetContext(context.WithValue(context.Background(), ctxKey{}, "v"))

		if !Dispatch("ok", ev, portal, page) {
			t.Fatal("Expected event to be handled")
		}
		if got != ev || ev.Target == nil || ev.Target.Props.ID() != "ok" {
			t.Error("Expected handler to receive the event with its target")
		}
		if got.Context().Value(ctxKey{}) != "v" {
			t.Error("Expected the request context on the event")
		}
	})

	t.Run("searches every root", func(t *testing.T) {
		if !Dispatch("dialog-close", &Event{Type: "click"}, portal, page) {
			t.Error("Expected portal element to be found")
		}
	})

	t.Run("ignored cases", func(t *testing.T) {
		got = nil
		for _, id := range []string{"off", "plain", "missing"} {
			if Dispatch(id, &Event{Type: "click"}, portal, page) {
				t.Errorf("Expected %s not to be handled", id)
			}
		}
		if Dispatch("ok", &Event{Type: "change"}, page) {
			t.Error("Expected other event types not to be handled")
		}
		if got != nil {
			t.Error("Expected no handler to run")
		}
	})

	t.Run("background context by default", func(t *testing.T) {
		if (&Event{}).Context() == nil {
			t.Error("Expected a non-nil context")
		}
	})
}

func TestAttach(t *testing.T) {
	var seen []string
	ref := func(el *Element) { seen = append(seen, el.Props.ID()) }

	Attach(Fragment{
		El("div", Props{Ref: ref}.WithID("a"), El("span", Props{Ref: ref}.WithID("b"))),
		El("div", Props{}.WithID("c")),
	})

	if strings.Join(seen, ",") != "a,b" {
		t.Errorf("Expected refs in document order, got %v", seen)
	}
}

func TestButton(t *testing.T) {
	t.Run("idle", func(t *testing.T) {
		el := PrimaryButton(ButtonProps{Props: Props{Class: "w-full"}.WithID("go")}, Text("Go")).(*Element)

		if el.Tag != "button" || el.Props.Attrs["type"] != "button" {
			t.Errorf("Expected a button element, got %s %v", el.Tag, el.Props.Attrs)
		}
		if _, disabled := el.Props.Attrs["disabled"]; disabled {
			t.Error("Expected an enabled button")
		}
		if !strings.Contains(el.Props.Class, "w-full") || !strings.Contains(el.Props.Class, "cursor-pointer") {
			t.Errorf("Unexpected class '%s'", el.Props.Class)
		}
	})

	t.Run("busy action disables", func(t *testing.T) {
		a := NewAction(time.Hour)
		a.afterFunc = func(time.Duration, func()) {}
		a.Run(context.Background(), func(context.Context) error { return nil })

		el := SecondaryButton(ButtonProps{Props: Props{Attrs: map[string]string{"disabled": "no"}}, Action: a}, Text("Go")).(*Element)

		if el.Props.Attrs["disabled"] != "" {
			t.Errorf("Expected disabled attribute, got %v", el.Props.Attrs)
		}
		if el.Props.Attrs["aria-busy"] != "true" {
			t.Error("Expected aria-busy")
		}
		if !strings.Contains(el.Props.Class, "animate-pulse") || strings.Contains(el.Props.Class, "cursor-pointer") {
			t.Errorf("Unexpected class '%s'", el.Props.Class)
		}
	})

	t.Run("as child link", func(t *testing.T) {
		el := PrimaryButton(ButtonProps{AsChild: true}, El("a", Props{}.Attr("href", "/x"), Text("x"))).(*Element)

		if el.Tag != "a" || el.Props.Attrs["href"] != "/x" {
			t.Errorf("Expected the link to be rendered, got %s %v", el.Tag, el.Props.Attrs)
		}
		if _, ok := el.Props.Attrs["type"]; ok {
			t.Error("Expected no type attribute on a link")
		}
	})
}
