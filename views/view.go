// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-vote/api"
	"github.com/danielhkuo/quickly-vote/dom"
	"github.com/danielhkuo/quickly-vote/query"
	"github.com/danielhkuo/quickly-vote/session"
	"github.com/danielhkuo/quickly-vote/ui"
)

// Env is everything a view needs from the composition root.
type Env struct {
	Doc     *dom.Document
	Cache   *query.Client
	API     *api.Client
	Session *session.Session
	Nav     *Navigator

	// QR encodes a string as a PNG image.
	QR func(content string) ([]byte, error)

	PublicURL    string
	PollInterval time.Duration
	MinBusy      time.Duration
}

// View is a page-level controller. Render builds the current tree;
// Unmount tears down subscriptions, timers and dialogs.
type View interface {
	Render(ctx context.Context) ui.Node
	Unmount()
}

// Refresher is implemented by views that want the page reloaded after a
// delay, for example while an action is busy. Zero means no reload.
type Refresher interface {
	RefreshAfter() time.Duration
}

// Navigator carries a pending navigation from a view to the HTTP layer.
type Navigator struct {
	mu   sync.Mutex
	next string
}

// Push requests navigation to path. A later push replaces an earlier one.
func (n *Navigator) Push(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next = path
}

// Take returns and clears the pending navigation.
func (n *Navigator) Take() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	next := n.next
	n.next = ""
	return next, next != ""
}

// busyRefresh is how often a page reloads while waiting on an action.
const busyRefresh = time.Second

// controller is the lifecycle shared by every view: subscriptions and
// timers torn down on unmount, background work tracked, and a banner
// for the last failed action.
type controller struct {
	env *Env

	mu        sync.Mutex
	unmounted bool
	subs      []*query.Subscription
	stops     []func()
	err       error

	loads sync.WaitGroup
	tasks sync.WaitGroup
}

// subscribe routes snapshots of key to fn until unmount. Snapshots that
// arrive after unmount are dropped.
func (c *controller) subscribe(key query.Key, fn func(query.Snapshot)) {
	sub := c.env.Cache.Subscribe(key, func(s query.Snapshot) {
		if !c.alive() {
			return
		}
		fn(s)
	})
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		sub.Close()
		return
	}
	c.subs = append(c.subs, sub)
}

// load fetches in the background.
func (c *controller) load(fn func(ctx context.Context) error) {
	c.loads.Add(1)
	go func() {
		defer c.loads.Done()
		if err := fn(context.Background()); err != nil {
			slog.Warn("view load failed", "error", err)
		}
	}()
}

// task runs an action in the background. Its error becomes the banner
// unless the view was unmounted meanwhile.
func (c *controller) task(fn func(ctx context.Context) error) {
	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()
		c.report(fn(context.Background()))
	}()
}

// report records err for the banner. A nil err clears it.
func (c *controller) report(err error) {
	if err != nil {
		slog.Warn("view action failed", "error", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return
	}
	c.err = err
}

func (c *controller) onUnmount(stop func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		stop()
		return
	}
	c.stops = append(c.stops, stop)
}

func (c *controller) alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.unmounted
}

// Err returns the last action error.
func (c *controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Settle waits until the background loads finish or timeout passes.
func (c *controller) Settle(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		c.loads.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Wait blocks until every load and task has finished.
func (c *controller) Wait() {
	c.loads.Wait()
	c.tasks.Wait()
}

// Unmount closes subscriptions and stops timers. Idempotent.
func (c *controller) Unmount() {
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return
	}
	c.unmounted = true
	subs, stops := c.subs, c.stops
	c.subs, c.stops = nil, nil
	c.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
	for i := len(stops) - 1; i >= 0; i-- {
		stops[i]()
	}
}
