// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-vote/api"
	"github.com/danielhkuo/quickly-vote/confirm"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/query"
	"github.com/danielhkuo/quickly-vote/ui"
)

// Element ids of the manage page.
const (
	ManageCloseID         = "manage-close"
	ManageDeleteID        = "manage-delete"
	ManageCloseConfirmID  = "manage-close-confirm"
	ManageDeleteConfirmID = "manage-delete-confirm"
	manageShareID         = "manage-share"
)

// ManagePoll lets the owner close or delete a poll and see who voted.
type ManagePoll struct {
	controller

	id            string
	closeAction   *ui.Action
	deleteAction  *ui.Action
	confirmClose  *confirm.Confirmer
	confirmDelete *confirm.Confirmer

	dataMu sync.Mutex
	poll   *models.Poll
}

// NewManagePoll mounts the manage view of poll id.
func NewManagePoll(env *Env, id string) *ManagePoll {
	v := &ManagePoll{
		id:            id,
		closeAction:   ui.NewAction(env.MinBusy),
		deleteAction:  ui.NewAction(env.MinBusy),
		confirmClose:  confirm.New(env.Doc, ManageCloseConfirmID),
		confirmDelete: confirm.New(env.Doc, ManageDeleteConfirmID),
	}
	v.env = env
	v.onUnmount(v.confirmClose.Unmount)
	v.onUnmount(v.confirmDelete.Unmount)

	v.subscribe(api.PollKey(id), func(s query.Snapshot) {
		if p, ok := s.Value.(*models.Poll); ok && p != nil {
			v.dataMu.Lock()
			v.poll = p
			v.dataMu.Unlock()
		}
	})
	q := env.API.GetPollQuery(id, "")
	v.load(func(ctx context.Context) error {
		poll, err := query.Fetch(ctx, env.Cache, q)
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
	return v
}

// Poll returns the last known poll, or nil while loading.
func (v *ManagePoll) Poll() *models.Poll {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return v.poll
}

// Confirmers exposes the close and delete confirmations.
func (v *ManagePoll) Confirmers() (closePoll, deletePoll *confirm.Confirmer) {
	return v.confirmClose, v.confirmDelete
}

// Close asks for confirmation, then closes the poll in the background and
// navigates to its detail page.
func (v *ManagePoll) Close() error {
	answer, err := v.confirmClose.Ask(confirm.Options{
		Title: "Abstimmung beenden",
		Message: []string{
			"Bist du sicher, dass du die Abstimmung beenden möchtest? Diese Aktion kann nicht rückgängig gemacht werden.",
			"Nach dem Beenden der Abstimmung können keine weiteren Stimmen mehr abgegeben werden und die Ergebnisse werden für alle Teilnehmer sichtbar.",
		},
		SubmitLabel: "Abstimmung beenden",
		CancelLabel: "Abbrechen",
	})
	if err != nil {
		return err
	}

	v.task(func(ctx context.Context) error {
		if !<-answer {
			return nil
		}
		err := v.closeAction.Run(ctx, func(ctx context.Context) error {
			_, err := query.Mutate(ctx, v.env.Cache, v.env.API.ClosePollMutation(v.id), struct{}{})
			return err
		})
		if err != nil {
			return err
		}
		if v.alive() {
			v.env.Nav.Push(PollPath(v.id))
		}
		return nil
	})
	return nil
}

// Delete asks for confirmation, then deletes the poll in the background
// and navigates home.
func (v *ManagePoll) Delete() error {
	answer, err := v.confirmDelete.Ask(confirm.Options{
		Title: "Abstimmung löschen",
		Message: []string{
			"Bist du sicher, dass du die Abstimmung löschen möchtest? Diese Aktion kann nicht rückgängig gemacht werden.",
			"Nach dem Löschen der Abstimmung werden alle zugehörigen Daten dauerhaft entfernt und können nicht wiederhergestellt werden.",
		},
		SubmitLabel: "Abstimmung löschen",
		CancelLabel: "Abbrechen",
		Danger:      true,
	})
	if err != nil {
		return err
	}

	v.task(func(ctx context.Context) error {
		if !<-answer {
			return nil
		}
		err := v.deleteAction.Run(ctx, func(ctx context.Context) error {
			_, err := query.Mutate(ctx, v.env.Cache, v.env.API.DeletePollMutation(v.id), struct{}{})
			return err
		})
		if err != nil {
			return err
		}
		v.env.Cache.Remove(api.PollKey(v.id))
		if v.alive() {
			v.env.Nav.Push(PathHome)
		}
		return nil
	})
	return nil
}

func (v *ManagePoll) RefreshAfter() time.Duration {
	if v.confirmClose.Pending() || v.confirmDelete.Pending() {
		return 0
	}
	if v.Poll() == nil || v.closeAction.Busy() || v.deleteAction.Busy() {
		return busyRefresh
	}
	return 0
}

func (v *ManagePoll) Render(ctx context.Context) ui.Node {
	poll := v.Poll()
	if poll == nil {
		return placeholder("Lade Abstimmung...")
	}
	closed := poll.IsClosed()

	var notice ui.Node
	if closed {
		notice = ui.El("span", ui.Props{Class: "text-2xl font-medium text-gray-600"},
			ui.Text("Diese Abstimmung ist beendet. Es können keine weiteren Stimmen abgegeben werden."))
	}

	actions := ui.El("div", ui.Props{Class: "flex flex-col gap-6 p-6 pt-0"},
		notice,
		ui.SecondaryButton(ui.ButtonProps{AsChild: true, Disabled: closed},
			link(SharePollPath(poll.ID), ui.Props{}.WithID(manageShareID), ui.Text("Abstimmung teilen")),
		),
		ui.PrimaryButton(ui.ButtonProps{
			Props: ui.Props{}.WithID(ManageCloseID).On("click", func(*ui.Event) {
				if err := v.Close(); err != nil {
					v.report(err)
				}
			}),
			Disabled: closed,
			Action:   v.closeAction,
		}, ui.Text("Abstimmung beenden")),
		ui.PrimaryButton(ui.ButtonProps{
			Props: ui.Props{Class: "bg-red-600 hover:bg-red-700 active:bg-red-800"}.WithID(ManageDeleteID).On("click", func(*ui.Event) {
				if err := v.Delete(); err != nil {
					v.report(err)
				}
			}),
			Action: v.deleteAction,
		}, ui.Text("Abstimmung löschen")),
	)

	return theme("gray",
		ui.El("main", ui.Props{Class: "flex flex-col min-h-full"},
			theme(poll.ColorScheme.Theme(), pollHeader(poll)),
			ui.El("header", ui.Props{Class: "flex flex-col gap-4 p-6 py-8"},
				ui.El("h1", ui.Props{Class: "text-4.5xl/13 font-bold text-black flex items-center gap-3"}, ui.Text("Abstimmung verwalten")),
			),
			errorBanner(v.Err()),
			ui.El("div", ui.Props{Class: "flex flex-col gap-10 pt-0"},
				actions,
				userSection("Abgestimmt", poll.UsersWithStatus(models.UserVoted)),
				userSection("Offen", poll.UsersWithStatus(models.UserEligible)),
			),
		),
	)
}

func userSection(title string, users []models.PollUser) ui.Node {
	if len(users) == 0 {
		return nil
	}
	return ui.El("div", ui.Props{Class: "p-6 pt-0 flex flex-col gap-6"},
		ui.El("h2", ui.Props{Class: "text-3xl font-bold text-black hyphens-auto text-balance flex"}, ui.Text(title)),
		userList(users),
	)
}
