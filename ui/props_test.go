// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ui

import (
	"slices"
	"testing"
)

func TestHandlerName(t *testing.T) {
	if got := HandlerName("click"); got != "onClick" {
		t.Errorf("Expected onClick, got %s", got)
	}
	if got := HandlerName(""); got != "" {
		t.Errorf("Expected empty name, got %s", got)
	}
	if !IsHandlerName("onKeyDown") || IsHandlerName("one") || IsHandlerName("click") {
		t.Error("Unexpected handler name classification")
	}
}

func TestProps_CopyOnWrite(t *testing.T) {
	base := Props{Attrs: map[string]string{"type": "button"}}
	withID := base.WithID("x")

	if base.ID() != "" {
		t.Error("Expected original props to stay untouched")
	}
	if withID.ID() != "x" || withID.Attrs["type"] != "button" {
		t.Errorf("Unexpected attrs %v", withID.Attrs)
	}
}

func TestMergeProps(t *testing.T) {
	var calls []string
	var refs []string

	wrapper := Props{
		Class: "p-2 text-gray-800",
		Style: map[string]string{"color": "red", "width": "10px"},
		Attrs: map[string]string{"type": "button", "id": "wrapper"},
		Ref:   func(*Element) { refs = append(refs, "wrapper") },
	}.On("click", func(*Event) { calls = append(calls, "wrapper") }).
		On("keyDown", func(*Event) { calls = append(calls, "wrapper-key") })

	child := Props{
		Class: "p-4",
		Style: map[string]string{"color": "blue"},
		Attrs: map[string]string{"id": "child", "href": "/"},
		Ref:   func(*Element) { refs = append(refs, "child") },
	}.On("click", func(*Event) { calls = append(calls, "child") })

	merged := MergeProps(wrapper, child)

	t.Run("attrs child wins", func(t *testing.T) {
		if merged.Attrs["id"] != "child" || merged.Attrs["type"] != "button" || merged.Attrs["href"] != "/" {
			t.Errorf("Unexpected attrs %v", merged.Attrs)
		}
	})

	t.Run("classes merged", func(t *testing.T) {
		if merged.Class != "text-gray-800 p-4" {
			t.Errorf("Unexpected class '%s'", merged.Class)
		}
	})

	t.Run("style child wins per key", func(t *testing.T) {
		if merged.Style["color"] != "blue" || merged.Style["width"] != "10px" {
			t.Errorf("Unexpected style %v", merged.Style)
		}
	})

	t.Run("handlers chained wrapper first", func(t *testing.T) {
		merged.Handler("click")(&Event{Type: "click"})
		if !slices.Equal(calls, []string{"wrapper", "child"}) {
			t.Errorf("Unexpected call order %v", calls)
		}

		calls = nil
		merged.Handler("keyDown")(&Event{Type: "keyDown"})
		if !slices.Equal(calls, []string{"wrapper-key"}) {
			t.Errorf("Expected wrapper-only handler to survive, got %v", calls)
		}
	})

	t.Run("refs both receive the element", func(t *testing.T) {
		merged.Ref(&Element{})
		if !slices.Equal(refs, []string{"wrapper", "child"}) {
			t.Errorf("Unexpected ref order %v", refs)
		}
	})

	t.Run("inputs untouched", func(t *testing.T) {
		if wrapper.Attrs["id"] != "wrapper" || wrapper.Style["color"] != "red" {
			t.Error("Expected wrapper props to stay untouched")
		}
	})
}

func TestMergeProps_ChildShorthandClassWins(t *testing.T) {
	wrapper := Props{Class: "rounded-5xl py-4 px-6 flex"}
	child := Props{Class: "p-2 px-4"}

	if got := MergeProps(wrapper, child).Class; got != "rounded-5xl flex p-2 px-4" {
		t.Errorf("Unexpected class '%s'", got)
	}
}

func TestMergeProps_NonEventHandlerChildWins(t *testing.T) {
	var calls []string
	wrapper := Props{Handlers: map[string]Handler{
		"handle": func(*Event) { calls = append(calls, "wrapper") },
	}}
	child := Props{Handlers: map[string]Handler{
		"handle": func(*Event) { calls = append(calls, "child") },
		"render": func(*Event) { calls = append(calls, "child-render") },
	}}

	merged := MergeProps(wrapper, child)
	merged.Handlers["handle"](&Event{})
	if !slices.Equal(calls, []string{"child"}) {
		t.Errorf("Expected child to replace wrapper value, got %v", calls)
	}

	calls = nil
	if merged.Handlers["render"] == nil {
		t.Fatal("Expected child-only value to be kept")
	}
	merged.Handlers["render"](&Event{})
	if !slices.Equal(calls, []string{"child-render"}) {
		t.Errorf("Unexpected calls %v", calls)
	}
}

func TestChainHandlers_RunsAfterPreventDefault(t *testing.T) {
	ran := false
	h := ChainHandlers(
		func(e *Event) { e.PreventDefault() },
		nil,
		func(e *Event) { ran = true },
	)

	ev := &Event{}
	h(ev)

	if !ran {
		t.Error("Expected later handler to run")
	}
	if !ev.DefaultPrevented() {
		t.Error("Expected default to be prevented")
	}
	if ChainHandlers(nil, nil) != nil {
		t.Error("Expected nil for no handlers")
	}
}
