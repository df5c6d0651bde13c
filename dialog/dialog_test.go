// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dialog

import (
	"testing"

	"github.com/danielhkuo/quickly-vote/dom"
	"github.com/danielhkuo/quickly-vote/ui"
)

func newTestDialog(doc *dom.Document, id string, opts Options) *Dialog {
	return New(doc, id, opts, func(ctx Context) ui.Node {
		if !ctx.IsOpen {
			return nil
		}
		return Content(PartProps{},
			Header(PartProps{}, Title(PartProps{}, ui.Text("Title")), CloseButton(ctx, PartProps{})),
		)
	})
}

func click(t *testing.T, doc *dom.Document, id string) {
	t.Helper()
	if !ui.Dispatch(id, &ui.Event{Type: "click"}, doc.Portals()) {
		t.Fatalf("Expected click on %s to be handled", id)
	}
}

func TestDialog_OpenCloseRestoresFocus(t *testing.T) {
	doc := dom.New()
	doc.Focus("trigger")
	d := newTestDialog(doc, "dlg", Options{})

	d.SetOpen(true)
	if !d.IsOpen() || !doc.ScrollLocked() {
		t.Fatal("Expected open dialog to lock scrolling")
	}
	if doc.ActiveElement() != "dlg" {
		t.Errorf("Expected dialog focused, got %q", doc.ActiveElement())
	}
	if ui.Find(doc.Portals(), "dlg-close") == nil {
		t.Error("Expected content rendered into the portal root")
	}

	click(t, doc, "dlg-close")
	if d.IsOpen() || doc.ScrollLocked() {
		t.Error("Expected close button to close and unlock")
	}
	if doc.ActiveElement() != "trigger" {
		t.Errorf("Expected focus restored to trigger, got %q", doc.ActiveElement())
	}
}

func TestDialog_Escape(t *testing.T) {
	doc := dom.New()
	d := newTestDialog(doc, "dlg", Options{})
	stay := newTestDialog(doc, "stay", Options{IgnoreEscape: true})

	d.SetOpen(true)
	stay.SetOpen(true)
	doc.DispatchKey("Enter")
	if !d.IsOpen() {
		t.Error("Expected other keys to be ignored")
	}

	doc.DispatchKey("Escape")
	if d.IsOpen() {
		t.Error("Expected Escape to close the dialog")
	}
	if !stay.IsOpen() || !doc.ScrollLocked() {
		t.Error("Expected the dialog ignoring Escape to stay open and locked")
	}
}

func TestDialog_Backdrop(t *testing.T) {
	doc := dom.New()
	closing := newTestDialog(doc, "a", Options{CloseOnOutsideClick: true})
	modal := newTestDialog(doc, "b", Options{})

	closing.SetOpen(true)
	modal.SetOpen(true)

	click(t, doc, "a-backdrop")
	click(t, doc, "b-backdrop")

	if closing.IsOpen() {
		t.Error("Expected backdrop click to close")
	}
	if !modal.IsOpen() {
		t.Error("Expected backdrop click to be ignored")
	}
}

func TestDialog_NestedScrollLocks(t *testing.T) {
	doc := dom.New()
	outer := newTestDialog(doc, "outer", Options{})
	inner := newTestDialog(doc, "inner", Options{})

	outer.SetOpen(true)
	inner.SetOpen(true)
	inner.SetOpen(false)
	if !doc.ScrollLocked() {
		t.Error("Expected outer dialog to keep the lock")
	}
	if doc.ActiveElement() != "outer" {
		t.Errorf("Expected focus back on outer dialog, got %q", doc.ActiveElement())
	}

	outer.SetOpen(false)
	if doc.ScrollLocked() {
		t.Error("Expected scrolling restored")
	}
}

func TestDialog_Controlled(t *testing.T) {
	doc := dom.New()
	d := newTestDialog(doc, "dlg", Options{})

	open := true
	var requests []bool
	d.Update(&open, func(v bool) { requests = append(requests, v) })
	if !doc.ScrollLocked() {
		t.Fatal("Expected controlled open to lock")
	}

	doc.DispatchKey("Escape")
	if !d.IsOpen() {
		t.Error("Expected the parent to decide")
	}
	if len(requests) != 1 || requests[0] {
		t.Errorf("Expected one close request, got %v", requests)
	}

	open = false
	d.Update(&open, nil)
	if doc.ScrollLocked() {
		t.Error("Expected unlock once the parent closed")
	}
}

func TestDialog_UnmountWhileOpen(t *testing.T) {
	doc := dom.New()
	doc.Focus("trigger")
	d := newTestDialog(doc, "dlg", Options{})
	d.SetOpen(true)

	d.Unmount()
	d.Unmount()

	if doc.ScrollLocked() {
		t.Error("Expected unmount to release the lock")
	}
	if doc.ActiveElement() != "trigger" {
		t.Errorf("Expected focus restored, got %q", doc.ActiveElement())
	}
	if len(doc.Portals()) != 0 {
		t.Error("Expected the portal removed")
	}

	// Closed dialogs no longer react
	d.SetOpen(true)
	if doc.ScrollLocked() {
		t.Error("Expected an unmounted dialog not to lock")
	}
}

func TestParts_AsChild(t *testing.T) {
	el, ok := Title(PartProps{AsChild: true, Props: ui.Props{Class: "text-red-500"}}, ui.El("h2", ui.Props{})).(*ui.Element)
	if !ok || el.Tag != "h2" {
		t.Fatalf("Expected the child heading, got %#v", el)
	}
	if el.Props.Class == "" {
		t.Error("Expected title classes forwarded")
	}
}
