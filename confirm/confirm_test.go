// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package confirm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-vote/dom"
	"github.com/danielhkuo/quickly-vote/ui"
)

// answerWhenOpen waits for the dialog to open, then clicks id.
func answerWhenOpen(t *testing.T, doc *dom.Document, c *Confirmer, id string) {
	t.Helper()
	go func() {
		deadline := time.Now().Add(2 * time.Second)
		for !c.Pending() {
			if time.Now().After(deadline) {
				return
			}
			time.Sleep(time.Millisecond)
		}
		ui.Dispatch(id, &ui.Event{Type: "click"}, doc.Portals())
	}()
}

func TestConfirm_Accept(t *testing.T) {
	doc := dom.New()
	c := New(doc, "ask")
	answerWhenOpen(t, doc, c, "ask-confirm")

	ok, err := c.Confirm(context.Background(), Options{Title: "Sure?"})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("Expected true for confirm")
	}
	if c.Pending() || c.Dialog().IsOpen() || doc.ScrollLocked() {
		t.Error("Expected the dialog closed after answering")
	}
}

func TestConfirm_CancelPaths(t *testing.T) {
	testCases := []struct {
		name   string
		answer func(doc *dom.Document, c *Confirmer)
	}{
		{"cancel button", func(doc *dom.Document, c *Confirmer) {
			ui.Dispatch("ask-cancel", &ui.Event{Type: "click"}, doc.Portals())
		}},
		{"close button", func(doc *dom.Document, c *Confirmer) {
			ui.Dispatch("ask-close", &ui.Event{Type: "click"}, doc.Portals())
		}},
		{"backdrop", func(doc *dom.Document, c *Confirmer) {
			ui.Dispatch("ask-backdrop", &ui.Event{Type: "click"}, doc.Portals())
		}},
		{"escape", func(doc *dom.Document, c *Confirmer) {
			doc.DispatchKey("Escape")
		}},
		{"unmount", func(doc *dom.Document, c *Confirmer) {
			c.Unmount()
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := dom.New()
			c := New(doc, "ask")

			answer, err := c.Ask(Options{})
			if err != nil {
				t.Fatal(err)
			}
			if !doc.ScrollLocked() {
				t.Fatal("Expected the dialog open")
			}

			tc.answer(doc, c)

			select {
			case ok := <-answer:
				if ok {
					t.Error("Expected false")
				}
			case <-time.After(time.Second):
				t.Fatal("Expected an answer")
			}
			if doc.ScrollLocked() {
				t.Error("Expected scroll unlocked")
			}
		})
	}
}

func TestConfirm_OnePending(t *testing.T) {
	doc := dom.New()
	c := New(doc, "ask")

	if _, err := c.Ask(Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Ask(Options{}); !errors.Is(err, ErrConfirmPending) {
		t.Errorf("Expected ErrConfirmPending, got %v", err)
	}

	c.Cancel()
	if _, err := c.Ask(Options{}); err != nil {
		t.Errorf("Expected a new confirmation after answering, got %v", err)
	}
}

func TestConfirm_ContextCancelled(t *testing.T) {
	doc := dom.New()
	c := New(doc, "ask")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for !c.Pending() {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	ok, err := c.Confirm(ctx, Options{})
	if ok {
		t.Error("Expected false")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if c.Pending() || doc.ScrollLocked() {
		t.Error("Expected the dialog closed")
	}
}

func TestConfirm_CancelledContextBeatsLateAccept(t *testing.T) {
	doc := dom.New()
	c := New(doc, "ask")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := range 50 {
		done := make(chan struct{})
		go func() {
			defer close(done)
			time.Sleep(time.Duration(i%5) * time.Microsecond)
			// A no-op unless it lands while the request is pending.
			c.Accept()
		}()

		ok, err := c.Confirm(ctx, Options{})
		if ok {
			t.Fatal("Expected false once the context is done")
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Expected context.Canceled, got %v", err)
		}
		<-done
		if c.Pending() {
			t.Fatal("Expected no pending confirmation")
		}
	}
}

func TestConfirm_Content(t *testing.T) {
	doc := dom.New()
	c := New(doc, "ask")

	if len(doc.Portals()) != 1 || ui.Find(doc.Portals(), "ask-confirm") != nil {
		t.Error("Expected a mounted but empty dialog while idle")
	}

	c.Ask(Options{Title: "Delete", Message: []string{"Line one", "Line two"}, SubmitLabel: "Yes", Danger: true})
	html, err := ui.RenderString(doc.Portals())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Delete", "Line one", "Line two", "Yes", "Cancel", "bg-red-600"} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected %q in dialog", want)
		}
	}
}
