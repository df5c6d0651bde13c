// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package confirm

import (
	"context"
	"errors"
	"sync"

	"github.com/danielhkuo/quickly-vote/classnames"
	"github.com/danielhkuo/quickly-vote/dialog"
	"github.com/danielhkuo/quickly-vote/dom"
	"github.com/danielhkuo/quickly-vote/ui"
)

var ErrConfirmPending = errors.New("a confirmation is already pending")

// Options parameterise one confirmation prompt.
type Options struct {
	Title       string
	Message     []string
	SubmitLabel string
	CancelLabel string
	Danger      bool
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Confirm"
	}
	if len(o.Message) == 0 {
		o.Message = []string{"Are you sure?"}
	}
	if o.SubmitLabel == "" {
		o.SubmitLabel = "Confirm"
	}
	if o.CancelLabel == "" {
		o.CancelLabel = "Cancel"
	}
	return o
}

// Confirmer turns a yes/no dialog into a blocking call. The dialog is open
// exactly while a confirmation is pending.
type Confirmer struct {
	dialog *dialog.Dialog

	mu      sync.Mutex
	opts    Options
	pending chan bool
}

// New mounts a confirmation dialog with the given id into doc.
func New(doc *dom.Document, id string) *Confirmer {
	c := &Confirmer{}
	c.dialog = dialog.New(doc, id, dialog.Options{CloseOnOutsideClick: true}, c.content)
	c.sync()
	return c
}

// Confirm opens the dialog and blocks until the user answers. It returns
// true only for an explicit confirm. A second call while one is pending
// fails with ErrConfirmPending. Once ctx is done the result is false with
// ctx.Err(), even if the user answered concurrently, and the dialog closes.
func (c *Confirmer) Confirm(ctx context.Context, opts Options) (bool, error) {
	answer, err := c.ask(opts)
	if err != nil {
		return false, err
	}

	select {
	case ok := <-answer:
		return ok, nil
	case <-ctx.Done():
		c.resolve(answer, false)
		// Drain an answer that raced the cancellation.
		<-answer
		return false, ctx.Err()
	}
}

// Ask opens the dialog and returns without waiting. The answer is
// delivered on the returned channel exactly once.
func (c *Confirmer) Ask(opts Options) (<-chan bool, error) {
	return c.ask(opts)
}

func (c *Confirmer) ask(opts Options) (chan bool, error) {
	c.mu.Lock()
	if c.pending != nil {
		c.mu.Unlock()
		return nil, ErrConfirmPending
	}
	answer := make(chan bool, 1)
	c.pending = answer
	c.opts = opts.withDefaults()
	c.mu.Unlock()

	c.sync()
	return answer, nil
}

// Accept answers the pending confirmation with true.
func (c *Confirmer) Accept() {
	c.resolve(nil, true)
}

// Cancel answers the pending confirmation with false.
func (c *Confirmer) Cancel() {
	c.resolve(nil, false)
}

// Pending reports whether a confirmation is waiting for an answer.
func (c *Confirmer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Dialog exposes the underlying dialog.
func (c *Confirmer) Dialog() *dialog.Dialog {
	return c.dialog
}

// Unmount answers any pending confirmation with false and removes the
// dialog from the document.
func (c *Confirmer) Unmount() {
	c.Cancel()
	c.dialog.Unmount()
}

// resolve delivers v to the pending request. When only is set, nothing
// happens unless that request is still the pending one. Resolving with
// nothing pending is a no-op.
func (c *Confirmer) resolve(only chan bool, v bool) {
	c.mu.Lock()
	answer := c.pending
	if answer == nil || (only != nil && only != answer) {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.mu.Unlock()

	answer <- v
	c.sync()
}

func (c *Confirmer) sync() {
	open := c.Pending()
	c.dialog.Update(&open, c.handleOpenChange)
}

func (c *Confirmer) handleOpenChange(open bool) {
	if !open {
		c.Cancel()
	}
}

func (c *Confirmer) content(ctx dialog.Context) ui.Node {
	c.mu.Lock()
	opts := c.opts
	c.mu.Unlock()
	if !ctx.IsOpen {
		return nil
	}

	message := make(ui.Fragment, 0, len(opts.Message))
	for _, line := range opts.Message {
		message = append(message, ui.El("span", ui.Props{Class: "block"}, ui.Text(line)))
	}

	submit := ui.Props{
		Class: classnames.Merge("whitespace-nowrap", classnames.If(opts.Danger, "bg-red-600 hover:bg-red-700 active:bg-red-800")),
	}.WithID(ctx.ID + "-confirm").On("click", func(*ui.Event) { c.Accept() })

	cancel := ui.Props{Class: "whitespace-nowrap bg-transparent"}.
		WithID(ctx.ID + "-cancel").
		On("click", func(*ui.Event) { c.Cancel() })

	return dialog.Content(dialog.PartProps{Props: ui.Props{Attrs: map[string]string{"data-theme": "gray"}}},
		dialog.Header(dialog.PartProps{},
			dialog.Title(dialog.PartProps{}, ui.Text(opts.Title)),
			dialog.CloseButton(ctx, dialog.PartProps{}),
		),
		ui.El("p", ui.Props{Class: "text-black"}, message),
		ui.El("div", ui.Props{Class: "flex flex-col flex-wrap gap-3 justify-end mt-2"},
			ui.PrimaryButton(ui.ButtonProps{Props: submit}, ui.Text(opts.SubmitLabel)),
			ui.SecondaryButton(ui.ButtonProps{Props: cancel}, ui.Text(opts.CancelLabel)),
		),
	)
}
