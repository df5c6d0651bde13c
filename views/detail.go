// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-vote/api"
	"github.com/danielhkuo/quickly-vote/classnames"
	"github.com/danielhkuo/quickly-vote/confirm"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/query"
	"github.com/danielhkuo/quickly-vote/ui"
)

// Element ids of the detail page.
const (
	DetailSubmitID    = "detail-submit"
	DetailConfirmID   = "detail-confirm"
	detailManageID    = "detail-manage"
	detailOptionIDFmt = "detail-option-%d"
)

// DetailOptionID is the id of the n-th vote option button.
func DetailOptionID(n int) string {
	return fmtID(detailOptionIDFmt, n)
}

var ErrNoSelection = errors.New("select at least one option")

// PollDetail shows one poll: the vote form while the viewer may vote, the
// results once the poll is closed, and a waiting notice in between.
type PollDetail struct {
	controller

	id     string
	secret string
	query  query.Query[*models.Poll]

	selection *ui.State[[]string]
	vote      *ui.Action
	confirm   *confirm.Confirmer

	dataMu     sync.Mutex
	poll       *models.Poll
	loadErr    error
	submitting bool
}

// NewPollDetail mounts the detail view of poll id, starts loading it and
// polls it until it is closed. secret grants link-only access.
func NewPollDetail(env *Env, id, secret string) *PollDetail {
	v := &PollDetail{
		id:        id,
		secret:    secret,
		query:     env.API.GetPollQuery(id, secret),
		selection: ui.NewState[[]string](nil),
		vote:      ui.NewAction(env.MinBusy),
		confirm:   confirm.New(env.Doc, DetailConfirmID),
	}
	v.env = env
	v.selection.Sync(nil, nil)
	v.onUnmount(v.confirm.Unmount)

	v.subscribe(api.PollKey(id), v.apply)
	v.load(func(ctx context.Context) error {
		poll, err := query.Fetch(ctx, env.Cache, v.query)
		if err == nil {
			v.setPoll(poll)
		}
		return err
	})

	stop := query.StartPolling(context.Background(), env.Cache, v.query, env.PollInterval, func(p *models.Poll) bool {
		return p != nil && p.IsClosed()
	})
	v.onUnmount(stop)
	return v
}

func (v *PollDetail) apply(s query.Snapshot) {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	if p, ok := s.Value.(*models.Poll); ok && s.HasValue && p != nil {
		v.poll = p
	}
	v.loadErr = nil
	if s.Status == query.StatusError && !s.HasValue {
		v.loadErr = s.Err
	}
}

func (v *PollDetail) setPoll(p *models.Poll) {
	if !v.alive() || p == nil {
		return
	}
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	if v.poll == nil {
		v.poll = p
	}
}

// Poll returns the last known poll, or nil while loading.
func (v *PollDetail) Poll() *models.Poll {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return v.poll
}

// Selection returns the selected options.
func (v *PollDetail) Selection() []string {
	return v.selection.Get()
}

// Toggle selects option. Single choice replaces the selection; multiple
// choice adds or removes option.
func (v *PollDetail) Toggle(option string) {
	poll := v.Poll()
	if poll == nil || !poll.HasOption(option) {
		return
	}
	multiple := poll.ChoiceType == models.ChoiceMultiple
	v.selection.Update(func(sel []string) []string {
		if !multiple {
			return []string{option}
		}
		if i := slices.Index(sel, option); i >= 0 {
			return slices.Delete(slices.Clone(sel), i, i+1)
		}
		return append(slices.Clone(sel), option)
	})
}

// Confirmer exposes the vote confirmation.
func (v *PollDetail) Confirmer() *confirm.Confirmer {
	return v.confirm
}

// Submit asks for confirmation and, once confirmed, casts the selected
// values in the background. It returns as soon as the dialog is open.
func (v *PollDetail) Submit() error {
	values := v.selection.Get()
	if len(values) == 0 {
		return ErrNoSelection
	}
	answer, err := v.confirm.Ask(confirm.Options{
		Title: "Stimme absenden",
		Message: []string{
			"Nach dem Absenden deiner Stimme kannst du deine Wahl nicht mehr ändern.",
			"Bist du dir sicher, dass du fortfahren möchtest?",
		},
		SubmitLabel: "Stimme absenden",
		CancelLabel: "Abbrechen",
	})
	if err != nil {
		return err
	}

	v.task(func(ctx context.Context) error {
		if !<-answer {
			return nil
		}
		v.setSubmitting(true)
		defer v.setSubmitting(false)
		return v.vote.Run(ctx, func(ctx context.Context) error {
			_, err := query.Mutate(ctx, v.env.Cache, v.env.API.VoteMutation(v.id, v.secret), values)
			return err
		})
	})
	return nil
}

func (v *PollDetail) setSubmitting(b bool) {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	v.submitting = b
}

type detailState int

const (
	detailLoading detailState = iota
	detailVoting
	detailResults
	detailWaiting
)

func (v *PollDetail) state() (detailState, *models.Poll) {
	v.dataMu.Lock()
	poll, submitting := v.poll, v.submitting
	v.dataMu.Unlock()
	if poll == nil {
		return detailLoading, nil
	}

	email := v.env.Session.Viewer().Email
	voted := poll.HasVoted(email) || submitting || v.vote.Busy()
	switch {
	case !voted && poll.IsEligible(email) && !poll.IsClosed():
		return detailVoting, poll
	case poll.IsClosed():
		return detailResults, poll
	}
	return detailWaiting, poll
}

// Waiting reports whether the viewer is waiting for results.
func (v *PollDetail) Waiting() bool {
	s, _ := v.state()
	return s == detailWaiting
}

func (v *PollDetail) RefreshAfter() time.Duration {
	if v.confirm.Pending() {
		return 0
	}
	switch s, _ := v.state(); {
	case s == detailLoading || v.vote.Busy():
		return busyRefresh
	case s == detailWaiting:
		return v.env.PollInterval
	}
	return 0
}

func (v *PollDetail) Render(ctx context.Context) ui.Node {
	state, poll := v.state()
	if state == detailLoading {
		v.dataMu.Lock()
		err := v.loadErr
		v.dataMu.Unlock()
		return ui.Fragment{errorBanner(err), placeholder("Lade Abstimmung...")}
	}

	var body ui.Node
	switch state {
	case detailVoting:
		body = v.renderForm(poll)
	case detailResults:
		body = renderResults(poll)
	default:
		body = renderWaiting()
	}

	var manage ui.Node
	if poll.IsOwner(v.env.Session.Viewer().Email) {
		manage = theme("gray",
			ui.El("div", ui.Props{Class: "p-6 bg-white"},
				ui.SecondaryButton(ui.ButtonProps{AsChild: true},
					link(ManagePollPath(poll.ID), ui.Props{}.WithID(detailManageID), ui.Text("Abstimmung verwalten")),
				),
			),
		)
	}

	return theme(poll.ColorScheme.Theme(),
		ui.El("main", ui.Props{Class: "flex flex-col min-h-full"},
			pollHeader(poll),
			errorBanner(v.Err()),
			body,
			manage,
		),
	)
}

func (v *PollDetail) renderForm(poll *models.Poll) ui.Node {
	selected := v.selection.Get()
	multiple := poll.ChoiceType == models.ChoiceMultiple

	options := make(ui.Fragment, 0, len(poll.Options))
	for i, option := range poll.Options {
		options = append(options, optionButton(optionButtonProps{
			Props: ui.Props{}.WithID(DetailOptionID(i)).On("click", func(*ui.Event) {
				v.Toggle(option)
			}),
			Selected: slices.Contains(selected, option),
			Multiple: multiple,
		}, ui.Text(option)))
	}

	return ui.El("form", ui.Props{Class: "flex flex-col justify-between gap-8 p-6 py-8 bg-theme-100 flex-1"},
		ui.El("div", ui.Props{Class: "flex flex-col gap-6"}, options),
		ui.El("div", ui.Props{Class: "flex flex-col gap-6"},
			ui.PrimaryButton(ui.ButtonProps{
				Props: ui.Props{}.WithID(DetailSubmitID).On("click", func(*ui.Event) {
					if err := v.Submit(); err != nil {
						v.report(err)
					}
				}),
				Disabled: len(selected) == 0,
				Action:   v.vote,
			}, ui.Text("Absenden")),
		),
	)
}

func renderResults(poll *models.Poll) ui.Node {
	maxVotes := poll.MaxVotes()

	rows := make(ui.Fragment, 0, len(poll.Options))
	for _, option := range poll.Options {
		count := poll.Results[option]
		isMax := count == maxVotes

		rows = append(rows, optionButton(optionButtonProps{
			Props: ui.Props{Class: classnames.Merge(
				"relative overflow-hidden",
				classnames.If(isMax, "border-theme-800"),
				classnames.If(!isMax, "opacity-50"),
			)},
			ReadOnly: true,
		},
			ui.El("div", ui.Props{Class: "w-full flex gap-2 justify-between items-center relative z-10"},
				ui.El("span", ui.Props{}, ui.Text(option)),
				ui.El("span", ui.Props{Class: classnames.Merge(
					"text-2xl font-semibold",
					classnames.If(isMax, "text-theme-900"),
					classnames.If(!isMax, "text-theme-900/50"),
				)}, ui.Text(votes(count))),
			),
			ui.El("div", ui.Props{
				Class: classnames.Merge(
					"absolute rounded-full top-0 left-0 z-0 h-full",
					classnames.If(isMax, "bg-theme-300"),
					classnames.If(!isMax, "bg-theme-50"),
				),
				Style: map[string]string{"width": percent(poll.Percentage(option))},
			}),
		))
	}

	return ui.El("div", ui.Props{Class: "flex flex-col justify-between gap-8 p-6 py-8 bg-theme-100 flex-1"},
		ui.El("div", ui.Props{Class: "flex flex-col gap-6"}, rows),
		ui.El("span", ui.Props{Class: "text-xl font-medium text-theme-800 text-center"},
			ui.Textf("%s insgesamt", votes(poll.TotalVotes()))),
		ui.SecondaryButton(ui.ButtonProps{AsChild: true, Props: ui.Props{Class: "bg-theme-200 hover:bg-theme-300 active:bg-theme-400"}},
			link(PathHome, ui.Props{}, ui.Text("Schließen")),
		),
	)
}

func renderWaiting() ui.Node {
	return ui.El("div", ui.Props{Class: "flex flex-col justify-between gap-8 p-6 py-8 bg-theme-100 flex-1"},
		ui.El("div", ui.Props{Class: "flex flex-col gap-6 items-center justify-center flex-1 pb-10 opacity-70"},
			ui.El("span", ui.Props{Class: "text-2xl/8 font-medium text-theme-800 text-center text-balance"},
				ui.Text("Die Ergebnisse werden hier automatisch angezeigt, sobald die Abstimmung abgeschlossen ist.")),
		),
		ui.SecondaryButton(ui.ButtonProps{AsChild: true},
			link(PathHome, ui.Props{}, ui.Text("Schließen")),
		),
	)
}

func votes(n int) string {
	if n == 1 {
		return "1 Stimme"
	}
	return fmt.Sprintf("%s Stimmen", humanize.Comma(int64(n)))
}
