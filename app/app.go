// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-vote/ui"
	"github.com/danielhkuo/quickly-vote/views"
)

// App owns the current page and the tree last sent to the browser.
type App struct {
	Env *views.Env

	mu    sync.Mutex
	route string
	view  views.View
	page  ui.Node
}

// New returns an app with no page shown.
func New(env *views.Env) *App {
	return &App{Env: env}
}

// Show makes the view for route current. The current view is kept when
// route is unchanged; otherwise it is unmounted and build creates the
// replacement.
func (a *App) Show(route string, build func(*views.Env) views.View) views.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.view != nil && a.route == route {
		return a.view
	}
	if a.view != nil {
		a.view.Unmount()
		slog.Debug("view unmounted", "route", a.route)
	}
	a.route = route
	a.view = build(a.Env)
	a.page = nil
	slog.Debug("view mounted", "route", route)
	return a.view
}

// Current returns the current view, or nil.
func (a *App) Current() views.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// Reset unmounts the current view.
func (a *App) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.view != nil {
		a.view.Unmount()
	}
	a.view, a.route, a.page = nil, "", nil
}

type settler interface {
	Settle(timeout time.Duration) bool
}

// Settle waits up to timeout for the current view's initial loads.
func (a *App) Settle(timeout time.Duration) {
	if s, ok := a.Current().(settler); ok {
		s.Settle(timeout)
	}
}

// Render renders the current view and the document portals. The page
// tree is kept for dispatching the events the browser sends back.
func (a *App) Render(ctx context.Context) (page, portals ui.Node) {
	v := a.Current()
	if v == nil {
		return nil, a.Env.Doc.Portals()
	}
	page = v.Render(ctx)
	ui.Attach(page)

	a.mu.Lock()
	if a.view == v {
		a.page = page
	}
	a.mu.Unlock()
	return page, a.Env.Doc.Portals()
}

// RefreshAfter is how long the browser should wait before reloading.
func (a *App) RefreshAfter() time.Duration {
	if r, ok := a.Current().(views.Refresher); ok {
		return r.RefreshAfter()
	}
	return 0
}

// Dispatch delivers a browser event. Key events go to the document key
// listeners; other events go to the element with targetID in the last
// rendered page or in a portal.
func (a *App) Dispatch(ctx context.Context, targetID string, ev *ui.Event) bool {
	ev.SetContext(ctx)
	if ev.Type == "keydown" {
		a.Env.Doc.DispatchKey(ev.Key)
		return true
	}

	a.mu.Lock()
	page := a.page
	a.mu.Unlock()

	handled := ui.Dispatch(targetID, ev, a.Env.Doc.Portals(), page)
	if !handled {
		slog.Debug("event not handled", "type", ev.Type, "target", targetID)
	}
	return handled
}
