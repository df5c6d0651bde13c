// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dialog

import (
	"sync"

	"github.com/danielhkuo/quickly-vote/classnames"
	"github.com/danielhkuo/quickly-vote/dom"
	"github.com/danielhkuo/quickly-vote/ui"
)

// Options configures a Dialog.
type Options struct {
	// IgnoreEscape keeps the dialog open when Escape is pressed.
	IgnoreEscape bool
	// CloseOnOutsideClick closes the dialog when the backdrop is clicked.
	CloseOnOutsideClick bool
	// Props are merged onto the dialog root element.
	Props ui.Props
}

// Context is what descendants of a dialog see of it.
type Context struct {
	ID      string
	IsOpen  bool
	SetOpen func(bool)
}

// Close closes the surrounding dialog.
func (c Context) Close() {
	if c.SetOpen != nil {
		c.SetOpen(false)
	}
}

// Dialog is a modal rendered into the document portal root.
//
// Opening captures the focused element, focuses the dialog root and takes a
// scroll lock. Closing or unmounting releases the lock and restores focus.
type Dialog struct {
	id      string
	doc     *dom.Document
	opts    Options
	content func(Context) ui.Node
	state   *ui.State[bool]

	mu            sync.Mutex
	mounted       bool
	applied       bool
	lock          *dom.ScrollLock
	previousFocus string
	removeKey     func()
	unmount       func()
}

// New mounts a closed, uncontrolled dialog into doc. content builds the
// dialog body on every render.
func New(doc *dom.Document, id string, opts Options, content func(Context) ui.Node) *Dialog {
	d := &Dialog{
		id:      id,
		doc:     doc,
		opts:    opts,
		content: content,
		state:   ui.NewState(false),
		mounted: true,
	}
	d.unmount = doc.Mount(id, d.render)
	if !opts.IgnoreEscape {
		d.removeKey = doc.AddKeyListener(d.handleKey)
	}
	return d
}

// ID returns the dialog root element id.
func (d *Dialog) ID() string {
	return d.id
}

// IsOpen reports the current open state.
func (d *Dialog) IsOpen() bool {
	return d.state.Get()
}

// SetOpen requests an open state change. In controlled mode the request
// goes to the change notifier only.
func (d *Dialog) SetOpen(open bool) {
	d.state.Set(open)
	d.reconcile()
}

// Update passes the owner's props for this render. A nil open leaves the
// dialog uncontrolled.
func (d *Dialog) Update(open *bool, onOpenChange func(bool)) {
	d.state.Sync(open, onOpenChange)
	d.reconcile()
}

// Unmount tears the dialog down, running the same exit path as a close.
func (d *Dialog) Unmount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.mounted {
		return
	}
	d.mounted = false
	if d.applied {
		d.exit()
	}
	if d.removeKey != nil {
		d.removeKey()
	}
	d.unmount()
}

// Context returns the value handed to descendants.
func (d *Dialog) Context() Context {
	return Context{ID: d.id, IsOpen: d.IsOpen(), SetOpen: d.SetOpen}
}

func (d *Dialog) reconcile() {
	open := d.state.Get()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.mounted {
		return
	}
	switch {
	case open && !d.applied:
		d.previousFocus = d.doc.ActiveElement()
		d.doc.Focus(d.id)
		d.lock = d.doc.LockScroll()
		d.applied = true
	case !open && d.applied:
		d.exit()
	}
}

// exit must be called with d.mu held.
func (d *Dialog) exit() {
	d.lock.Release()
	d.lock = nil
	d.doc.Focus(d.previousFocus)
	d.previousFocus = ""
	d.applied = false
}

func (d *Dialog) handleKey(e *ui.Event) {
	if e.Key != "Escape" || !d.IsOpen() {
		return
	}
	d.SetOpen(false)
}

func (d *Dialog) handleBackdropClick(*ui.Event) {
	if !d.opts.CloseOnOutsideClick {
		return
	}
	d.SetOpen(false)
}

func (d *Dialog) render() ui.Node {
	ctx := d.Context()

	root := ui.Props{
		Class: classnames.Merge("fixed inset-0 z-50", classnames.If(ctx.IsOpen, "block"), classnames.If(!ctx.IsOpen, "hidden")),
		Attrs: map[string]string{
			"id":         d.id,
			"tabindex":   "-1",
			"role":       "dialog",
			"aria-modal": "true",
		},
	}
	if !ctx.IsOpen {
		root.Attrs["aria-hidden"] = "true"
	}

	backdrop := ui.El("div", ui.Props{
		Class: "fixed inset-0 bg-black/75",
		Attrs: map[string]string{"id": d.id + "-backdrop"},
	}.On("click", d.handleBackdropClick))

	var body ui.Node
	if d.content != nil {
		body = d.content(ctx)
	}
	return ui.El("div", ui.MergeProps(root, d.opts.Props), backdrop, body)
}
