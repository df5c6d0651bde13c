// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ui

import "testing"

func TestSlot(t *testing.T) {
	props := Props{Class: "p-2 underline", Attrs: map[string]string{"type": "button"}}

	t.Run("forwards props onto single child", func(t *testing.T) {
		child := El("a", Props{Class: "p-4", Attrs: map[string]string{"href": "/x"}}, Text("go"))

		got, ok := Slot(props, child).(*Element)
		if !ok {
			t.Fatal("Expected an element")
		}
		if got.Tag != "a" {
			t.Errorf("Expected child tag, got %s", got.Tag)
		}
		if got.Props.Class != "underline p-4" {
			t.Errorf("Unexpected class '%s'", got.Props.Class)
		}
		if got.Props.Attrs["href"] != "/x" || got.Props.Attrs["type"] != "button" {
			t.Errorf("Unexpected attrs %v", got.Props.Attrs)
		}
		if len(got.Children) != 1 {
			t.Errorf("Expected child children to be kept, got %d", len(got.Children))
		}
	})

	t.Run("nil children are ignored", func(t *testing.T) {
		var missing *Element
		if Slot(props, nil, missing, El("span", Props{})) == nil {
			t.Error("Expected the only real child to be used")
		}
	})

	t.Run("renders nothing otherwise", func(t *testing.T) {
		cases := map[string][]Node{
			"no children":   nil,
			"two children":  {El("a", Props{}), El("b", Props{})},
			"text child":    {Text("x")},
			"fragment only": {Fragment{El("a", Props{})}},
		}
		for name, children := range cases {
			if got := Slot(props, children...); got != nil {
				t.Errorf("%s: expected nil, got %#v", name, got)
			}
		}
	})
}

func TestAs(t *testing.T) {
	own := As(false, "button", Props{Class: "x"}, Text("a"))
	if el, ok := own.(*Element); !ok || el.Tag != "button" {
		t.Errorf("Expected own button element, got %#v", own)
	}

	forwarded := As(true, "button", Props{Class: "x"}, El("a", Props{}))
	if el, ok := forwarded.(*Element); !ok || el.Tag != "a" || el.Props.Class != "x" {
		t.Errorf("Expected props forwarded onto link, got %#v", forwarded)
	}
}
