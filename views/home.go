// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-vote/api"
	"github.com/danielhkuo/quickly-vote/classnames"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/query"
	"github.com/danielhkuo/quickly-vote/ui"
)

// Element ids of the home page controls.
const (
	HomeRefreshID     = "home-refresh"
	HomeToggleID      = "home-toggle-closed"
	HomeSignOutID     = "home-sign-out"
	homeCreateID      = "home-create"
	homePollLinkIDFmt = "home-poll-%s"
)

// Home lists the viewer's polls.
type Home struct {
	controller

	showClosed *ui.State[bool]
	refresh    *ui.Action

	dataMu  sync.Mutex
	polls   []models.Poll
	loaded  bool
	loadErr error
}

// NewHome mounts the home view and starts loading the poll list.
func NewHome(env *Env) *Home {
	v := &Home{
		showClosed: ui.NewState(false),
		refresh:    ui.NewAction(env.MinBusy),
	}
	v.env = env
	v.showClosed.Sync(nil, nil)

	v.subscribe(api.ListPollsKey, v.apply)
	q := env.API.ListPollsQuery()
	v.load(func(ctx context.Context) error {
		polls, err := query.Fetch(ctx, env.Cache, q)
		if err == nil {
			v.setPolls(polls)
		}
		return err
	})
	return v
}

func (v *Home) apply(s query.Snapshot) {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	if polls, ok := s.Value.([]models.Poll); ok && s.HasValue {
		v.polls, v.loaded = polls, true
	}
	v.loadErr = nil
	if s.Status == query.StatusError && !s.HasValue {
		v.loadErr = s.Err
	}
}

func (v *Home) loadError() error {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return v.loadErr
}

func (v *Home) setPolls(polls []models.Poll) {
	if !v.alive() {
		return
	}
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	v.polls, v.loaded = polls, true
}

// Polls returns the open and closed polls, in backend order.
func (v *Home) Polls() (open, closed []models.Poll, loaded bool) {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	for _, p := range v.polls {
		switch p.Status {
		case models.StatusOpen:
			open = append(open, p)
		case models.StatusClosed:
			closed = append(closed, p)
		}
	}
	return open, closed, v.loaded
}

// Refresh refetches the poll list.
func (v *Home) Refresh(ctx context.Context) error {
	return v.refresh.Run(ctx, func(ctx context.Context) error {
		_, err := query.Refetch(ctx, v.env.Cache, v.env.API.ListPollsQuery())
		return err
	})
}

// SignOut forgets the viewer and every cached read.
func (v *Home) SignOut(ctx context.Context) error {
	if err := v.env.Session.SignOut(ctx); err != nil {
		return err
	}
	v.env.Cache.Clear()
	v.env.Nav.Push(PathSignIn)
	return nil
}

func (v *Home) RefreshAfter() time.Duration {
	_, _, loaded := v.Polls()
	if !loaded || v.refresh.Busy() {
		return busyRefresh
	}
	return 0
}

func (v *Home) Render(ctx context.Context) ui.Node {
	open, closed, loaded := v.Polls()
	viewer := v.env.Session.Viewer()

	chip := ui.El("div", ui.Props{
		Class: "inline-flex items-center gap-3 bg-gray-100 p-2 pr-4 rounded-full text-4.5xl/1 font-semibold text-gray-800 cursor-pointer hover:bg-gray-200 active:bg-gray-300",
	}.WithID(HomeSignOutID).On("click", func(e *ui.Event) { v.report(v.SignOut(e.Context())) }),
		ui.When(viewer.ImageURL != "", ui.El("img", ui.Props{
			Class: "rounded-full w-10 h-10",
			Attrs: map[string]string{"src": viewer.ImageURL, "referrerpolicy": "no-referrer", "alt": ""},
		})),
		ui.El("span", ui.Props{}, ui.Text(viewer.Name)),
	)

	header := ui.El("header", ui.Props{Class: "py-10 px-6"},
		ui.El("h1", ui.Props{Class: "text-4.5xl/13 font-bold text-black flex items-center justify-center gap-3"},
			ui.Text("Hallo, "), chip),
	)

	buttons := ui.El("div", ui.Props{Class: "flex flex-col w-full p-6 gap-6 bg-white justify-start"},
		ui.SecondaryButton(ui.ButtonProps{
			Props:  ui.Props{}.WithID(HomeRefreshID).On("click", func(*ui.Event) { v.task(v.Refresh) }),
			Action: v.refresh,
		}, ui.Text("Liste aktualisieren")),
		ui.SecondaryButton(ui.ButtonProps{AsChild: true},
			link(PathCreatePoll, ui.Props{}.WithID(homeCreateID), ui.Text("Neue Abstimmung erstellen")),
		),
	)

	var archive ui.Node
	if len(closed) > 0 {
		showClosed := v.showClosed.Get()
		label := "Abgeschlossene anzeigen"
		if showClosed {
			label = "Abgeschlossene verbergen"
		}
		archive = ui.Fragment{
			ui.El("div", ui.Props{Class: "flex flex-col px-6 pt-0 pb-6"},
				ui.SecondaryButton(ui.ButtonProps{
					Props: ui.Props{}.WithID(HomeToggleID).On("click", func(*ui.Event) {
						v.showClosed.Update(func(b bool) bool { return !b })
					}),
				}, ui.Text(label)),
			),
			ui.When(showClosed, pollCards(closed, true, "pb-10")),
		}
	}

	return theme("gray",
		ui.El("main", ui.Props{Class: "flex flex-col min-h-full flex-1"},
			header,
			errorBanner(firstErr(v.Err(), v.loadError())),
			pollCards(open, loaded, "pt-0"),
			buttons,
			archive,
		),
	)
}

func pollCards(polls []models.Poll, loaded bool, class string) ui.Node {
	cards := make(ui.Fragment, 0, len(polls))
	for _, p := range polls {
		cards = append(cards, pollCard(p))
	}

	var note ui.Node
	switch {
	case !loaded:
		note = ui.Text("Lade Abstimmungen...")
	case len(polls) == 0:
		note = ui.Text("Keine offenen Abstimmungen verfügbar.")
	}
	if note != nil {
		note = ui.El("div", ui.Props{
			Class: "text-center text-gray-500 text-2xl font-medium py-12 text-balance flex-1 flex items-center justify-center",
		}, note)
	}

	return ui.El("div", ui.Props{
		Class: classnames.Merge("flex flex-col w-full p-6 gap-10 bg-white justify-start flex-1", class),
	}, cards, note)
}

func pollCard(p models.Poll) ui.Node {
	author := "Jemand"
	if p.CreatedBy != nil && p.CreatedBy.Name != "" {
		author = p.CreatedBy.Name
	}

	action := ui.El("div", ui.Props{
		Class: "rounded-5xl bg-theme-50 text-theme-800 text-2xl font-semibold py-4 px-6 text-center mt-auto group-hover:bg-theme-100 group-active:bg-theme-200",
	}, ui.Text("Ergebnisse anzeigen"))
	if p.Status == models.StatusOpen {
		action = ui.El("div", ui.Props{
			Class: "rounded-5xl bg-theme-800 text-white text-2xl font-semibold py-4 px-6 text-center mt-auto group-hover:bg-theme-900 group-active:bg-theme-950",
		}, ui.Text("Zur Abstimmung"))
	}

	var created ui.Node
	if !p.CreatedAt.IsZero() {
		created = ui.El("span", ui.Props{Class: "px-2 text-xl text-theme-800 opacity-50"}, ui.Text(humanize.Time(p.CreatedAt)))
	}

	return theme(p.ColorScheme.Theme(),
		link(PollPath(p.ID), ui.Props{
			Class: "bg-theme-100 flex flex-col gap-6 p-6 rounded-6xl hover:bg-theme-200 active:bg-theme-300 group cursor-pointer",
		}.WithID(fmtID(homePollLinkIDFmt, p.ID)),
			ui.El("div", ui.Props{Class: "flex justify-between items-baseline"},
				ui.El("span", ui.Props{Class: "rounded-full px-2 font-semibold text-2xl text-theme-800 opacity-50 -mb-2"},
					ui.Textf("%s fragt:", author)),
				created,
			),
			ui.El("h1", ui.Props{Class: "text-3xl font-bold text-theme-800 hyphens-auto text-balance px-2 py-2"}, ui.Text(p.Title)),
			action,
		),
	)
}
