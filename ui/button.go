// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ui

import (
	"context"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-vote/classnames"
)

// MinBusy is how long an action stays busy at minimum, to avoid flicker.
const MinBusy = 500 * time.Millisecond

// Action tracks the busy state of an asynchronous operation bound to a
// control. The busy state lasts max(operation duration, minimum).
type Action struct {
	mu      sync.Mutex
	running int
	min     time.Duration

	now       func() time.Time
	afterFunc func(time.Duration, func())
}

// NewAction returns an action with the given minimum busy duration.
func NewAction(min time.Duration) *Action {
	return &Action{
		min: min,
		now: time.Now,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Run marks the action busy and runs fn. The error of fn is returned as soon
// as fn completes; the busy state is released once the minimum duration has
// passed since Run started.
func (a *Action) Run(ctx context.Context, fn func(context.Context) error) error {
	a.mu.Lock()
	a.running++
	a.mu.Unlock()

	start := a.now()
	err := fn(ctx)

	if remaining := a.min - a.now().Sub(start); remaining > 0 {
		a.afterFunc(remaining, a.done)
	} else {
		a.done()
	}
	return err
}

func (a *Action) done() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running > 0 {
		a.running--
	}
}

// Busy reports whether any run is still within its busy window.
func (a *Action) Busy() bool {
	if a == nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running > 0
}

// ButtonProps configures PrimaryButton and SecondaryButton.
type ButtonProps struct {
	Props
	AsChild  bool
	Disabled bool
	Action   *Action
}

// PrimaryButton renders the filled call-to-action button.
func PrimaryButton(p ButtonProps, children ...Node) Node {
	return button(p,
		"rounded-5xl bg-theme-800 text-white text-2xl font-semibold py-4 px-6 flex items-center gap-4 justify-center",
		"hover:bg-theme-900 active:bg-theme-950 cursor-pointer opacity-100",
		children)
}

// SecondaryButton renders the tinted secondary button.
func SecondaryButton(p ButtonProps, children ...Node) Node {
	return button(p,
		"rounded-5xl bg-theme-100 text-theme-800 text-2xl font-semibold py-4 px-6 flex items-center gap-4 justify-center",
		"hover:text-theme-950 hover:bg-theme-200 cursor-pointer active:bg-theme-300 opacity-100",
		children)
}

func button(p ButtonProps, base, interactive string, children []Node) Node {
	busy := p.Action.Busy()
	inactive := p.Disabled || busy

	own := Props{
		Class: classnames.Merge(
			base,
			classnames.If(!inactive, interactive),
			classnames.If(inactive, "opacity-50 cursor-not-allowed pointer-events-none"),
			classnames.If(busy, "animate-pulse"),
		),
	}
	if !p.AsChild {
		own = own.Attr("type", "button")
	}
	if inactive {
		own = own.Attr("disabled", "")
		own = own.Attr("aria-busy", boolAttr(busy))
	}

	props := MergeProps(own, p.Props)
	// Disabled state has the last word over caller attributes.
	if inactive {
		props = props.Attr("disabled", "")
	}
	return As(p.AsChild, "button", props, children...)
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
