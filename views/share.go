// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-vote/api"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/query"
	"github.com/danielhkuo/quickly-vote/ui"
)

// Element ids of the share page.
const (
	ShareSelectAllID = "share-select-all"
	ShareResetID     = "share-reset"
	ShareSubmitID    = "share-submit"
	shareLinkID      = "share-link"
	shareManageID    = "share-manage"
	shareUserIDFmt   = "share-user-%d"
)

// ShareUserID is the id of the n-th user row.
func ShareUserID(n int) string {
	return fmtID(shareUserIDFmt, n)
}

var ErrNoInvitees = errors.New("select at least one user")

// SharePoll invites users to a poll and shows its share link.
type SharePoll struct {
	controller

	id       string
	selected *ui.State[[]string]
	submit   *ui.Action

	dataMu sync.Mutex
	poll   *models.Poll
	users  []models.User
}

// NewSharePoll mounts the share view of poll id.
func NewSharePoll(env *Env, id string) *SharePoll {
	v := &SharePoll{
		id:       id,
		selected: ui.NewState[[]string](nil),
		submit:   ui.NewAction(env.MinBusy),
	}
	v.env = env
	v.selected.Sync(nil, nil)

	v.subscribe(api.PollKey(id), func(s query.Snapshot) {
		if p, ok := s.Value.(*models.Poll); ok && p != nil {
			v.dataMu.Lock()
			v.poll = p
			v.dataMu.Unlock()
		}
	})
	v.subscribe(api.ListUsersKey, func(s query.Snapshot) {
		if users, ok := s.Value.([]models.User); ok {
			v.dataMu.Lock()
			v.users = users
			v.dataMu.Unlock()
		}
	})

	pollQuery := env.API.GetPollQuery(id, "")
	usersQuery := env.API.ListUsersQuery()
	v.load(func(ctx context.Context) error {
		poll, err := query.Fetch(ctx, env.Cache, pollQuery)
		if err != nil {
			return err
		}
		v.dataMu.Lock()
		if v.poll == nil {
			v.poll = poll
		}
		v.dataMu.Unlock()
		return nil
	})
	v.load(func(ctx context.Context) error {
		users, err := query.Fetch(ctx, env.Cache, usersQuery)
		if err != nil {
			return err
		}
		v.dataMu.Lock()
		if v.users == nil {
			v.users = users
		}
		v.dataMu.Unlock()
		return nil
	})
	return v
}

func (v *SharePoll) data() (*models.Poll, []models.User) {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return v.poll, v.users
}

// Candidates are the users that are not members of the poll yet.
func (v *SharePoll) Candidates() []models.User {
	poll, users := v.data()
	if poll == nil {
		return nil
	}
	var out []models.User
	for _, u := range users {
		if !poll.IsEligible(u.Email) {
			out = append(out, u)
		}
	}
	return out
}

// Selected returns the selected emails in selection order.
func (v *SharePoll) Selected() []string {
	return v.selected.Get()
}

// Toggle selects or deselects a candidate.
func (v *SharePoll) Toggle(email string) {
	if !slices.ContainsFunc(v.Candidates(), func(u models.User) bool { return u.Email == email }) {
		return
	}
	v.selected.Update(func(sel []string) []string {
		if i := slices.Index(sel, email); i >= 0 {
			return slices.Delete(slices.Clone(sel), i, i+1)
		}
		return append(slices.Clone(sel), email)
	})
}

// SelectAll selects every candidate.
func (v *SharePoll) SelectAll() {
	candidates := v.Candidates()
	emails := make([]string, 0, len(candidates))
	for _, u := range candidates {
		emails = append(emails, u.Email)
	}
	v.selected.Set(emails)
}

// Reset clears the selection.
func (v *SharePoll) Reset() {
	v.selected.Set(nil)
}

// Submit invites the selected users and navigates to the manage page.
func (v *SharePoll) Submit(ctx context.Context) error {
	selected := v.selected.Get()
	var invitees []models.User
	for _, u := range v.Candidates() {
		if slices.Contains(selected, u.Email) {
			invitees = append(invitees, u)
		}
	}
	if len(invitees) == 0 {
		return ErrNoInvitees
	}

	err := v.submit.Run(ctx, func(ctx context.Context) error {
		_, err := query.Mutate(ctx, v.env.Cache, v.env.API.AddPollUsersMutation(v.id), invitees)
		return err
	})
	if err != nil {
		return err
	}
	v.selected.Set(nil)
	v.env.Nav.Push(ManagePollPath(v.id))
	return nil
}

// ShareURL is the public link to the poll. It carries the access secret
// when the poll has one.
func (v *SharePoll) ShareURL() string {
	poll, _ := v.data()
	if poll == nil {
		return ""
	}
	u := strings.TrimRight(v.env.PublicURL, "/") + PollPath(poll.ID)
	if poll.AccessSecret != "" {
		u += "?" + url.Values{"secret": {poll.AccessSecret}}.Encode()
	}
	return u
}

func (v *SharePoll) RefreshAfter() time.Duration {
	poll, users := v.data()
	if poll == nil || users == nil || v.submit.Busy() {
		return busyRefresh
	}
	return 0
}

func (v *SharePoll) Render(ctx context.Context) ui.Node {
	poll, users := v.data()
	if poll == nil {
		return placeholder("Lade Abstimmung...")
	}
	selected := v.selected.Get()

	rows := make(ui.Fragment, 0, len(users))
	for i, u := range users {
		member := poll.IsEligible(u.Email)
		rows = append(rows, optionButton(optionButtonProps{
			Props: ui.Props{Class: "w-full"}.WithID(ShareUserID(i)).On("click", func(*ui.Event) {
				v.Toggle(u.Email)
			}),
			Selected: member || slices.Contains(selected, u.Email),
			Multiple: true,
			Disabled: member,
		}, ui.Text(u.Name)))
	}

	form := ui.El("form", ui.Props{Class: "flex flex-col w-full p-6 pt-0 gap-4 bg-white justify-start"},
		ui.SecondaryButton(ui.ButtonProps{
			Props: ui.Props{Class: "justify-start"}.WithID(ShareSelectAllID).On("click", func(*ui.Event) { v.SelectAll() }),
		}, ui.Text("Alle Mitglieder auswählen")),
		ui.SecondaryButton(ui.ButtonProps{
			Props: ui.Props{Class: "justify-start"}.WithID(ShareResetID).On("click", func(*ui.Event) { v.Reset() }),
		}, ui.Text("Zurücksetzen")),
		rows,
		ui.PrimaryButton(ui.ButtonProps{
			Props: ui.Props{Class: "sticky bottom-6"}.WithID(ShareSubmitID).On("click", func(e *ui.Event) {
				v.report(v.Submit(e.Context()))
			}),
			Action: v.submit,
		}, ui.Text("Mitglieder hinzufügen")),
	)

	return theme("gray",
		ui.El("main", ui.Props{Class: "flex flex-col min-h-full"},
			theme(poll.ColorScheme.Theme(), pollHeader(poll)),
			ui.El("header", ui.Props{Class: "flex flex-col gap-4 p-6 py-8"},
				ui.El("h1", ui.Props{Class: "text-4.5xl/13 font-bold text-black flex items-center gap-3"}, ui.Text("Abstimmung teilen")),
			),
			errorBanner(v.Err()),
			v.renderLink(),
			form,
			ui.El("div", ui.Props{Class: "p-6"},
				ui.SecondaryButton(ui.ButtonProps{AsChild: true},
					link(ManagePollPath(poll.ID), ui.Props{}.WithID(shareManageID), ui.Text("Abstimmung verwalten")),
				),
			),
		),
	)
}

func (v *SharePoll) renderLink() ui.Node {
	shareURL := v.ShareURL()

	var code ui.Node
	if v.env.QR != nil {
		png, err := v.env.QR(shareURL)
		if err != nil {
			slog.Warn("failed to encode share QR code", "poll_id", v.id, "error", err)
		} else {
			code = ui.El("img", ui.Props{
				Class: "w-48 h-48 self-center rounded-3xl",
				Attrs: map[string]string{
					"src": "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
					"alt": "QR-Code",
				},
			})
		}
	}

	return ui.El("div", ui.Props{Class: "flex flex-col gap-4 p-6 pt-0"},
		code,
		ui.El("input", ui.Props{
			Class: "rounded-3xl bg-gray-100 text-gray-800 text-xl font-semibold py-3 px-4 w-full",
			Attrs: map[string]string{"readonly": "", "value": shareURL},
		}.WithID(shareLinkID)),
	)
}
