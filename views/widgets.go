// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"fmt"
	"net/url"

	"github.com/danielhkuo/quickly-vote/classnames"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/ui"
)

// Paths of the pages.
const (
	PathHome       = "/"
	PathCreatePoll = "/poll/create"
	PathSignIn     = "/signin"
)

func PollPath(id string) string       { return "/poll/" + url.PathEscape(id) }
func SharePollPath(id string) string  { return PollPath(id) + "/share" }
func ManagePollPath(id string) string { return PollPath(id) + "/manage" }

// theme scopes the theme-* utility classes of its children.
func theme(name string, children ...ui.Node) ui.Node {
	return ui.El("div", ui.Props{
		Class: "contents",
		Attrs: map[string]string{"data-theme": name, "data-base": "gray"},
	}, children...)
}

func link(href string, props ui.Props, children ...ui.Node) *ui.Element {
	return ui.El("a", props.Attr("href", href), children...)
}

func placeholder(text string) ui.Node {
	return ui.El("div", ui.Props{
		Class: "flex items-center justify-center h-full w-full text-gray-500 text-2xl font-medium py-12",
	}, ui.Text(text))
}

func errorBanner(err error) ui.Node {
	if err == nil {
		return nil
	}
	return ui.El("div", ui.Props{
		Class: "m-6 rounded-3xl bg-red-100 text-red-800 text-xl font-semibold p-4",
		Attrs: map[string]string{"role": "alert"},
	}, ui.Textf("Fehler: %v", err))
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// pollHeader shows the poll title with a link back home.
func pollHeader(poll *models.Poll) ui.Node {
	return ui.El("header", ui.Props{Class: "flex flex-col gap-4 p-6 py-8 bg-theme-100"},
		ui.El("div", ui.Props{Class: "flex items-center justify-end -mt-2"},
			ui.SecondaryButton(ui.ButtonProps{Props: ui.Props{Class: "p-2 px-4"}, AsChild: true},
				link(PathHome, ui.Props{}, ui.Text("Abbrechen")),
			),
		),
		ui.El("h1", ui.Props{Class: "text-5xl/13 font-bold text-theme-800 hyphens-auto text-balance"},
			link(PollPath(poll.ID), ui.Props{}, ui.Text(poll.Title)),
		),
	)
}

type optionButtonProps struct {
	ui.Props
	Selected bool
	Multiple bool
	ReadOnly bool
	Disabled bool
}

// optionButton is a selectable row used for vote options, invitees and
// result bars.
func optionButton(p optionButtonProps, children ...ui.Node) ui.Node {
	own := ui.Props{
		Class: classnames.Merge(
			"rounded-5xl text-theme-900 text-2xl font-semibold flex-1 py-4 px-5 text-left flex items-center gap-3 border-4 group",
			classnames.If(p.Selected, "bg-theme-300 border-theme-800"),
			classnames.If(!p.Selected, "bg-white border-theme-200"),
			classnames.If(!p.Selected && !p.ReadOnly, "hover:border-theme-300 hover:bg-theme-200"),
			classnames.If(!p.ReadOnly && !p.Disabled, "cursor-pointer"),
			classnames.If(p.Disabled, "opacity-50"),
		),
		Attrs: map[string]string{"type": "button"},
	}
	if p.Selected {
		own = own.Attr("aria-pressed", "true")
	}
	props := ui.MergeProps(own, p.Props)
	if p.Disabled {
		props = props.Attr("disabled", "")
	}

	var indicator ui.Node
	if !p.ReadOnly {
		indicator = choiceIndicator(p.Selected, p.Multiple)
	}
	return ui.El("button", props, append([]ui.Node{indicator}, children...)...)
}

func choiceIndicator(selected, multiple bool) ui.Node {
	shape, dot := "rounded-full", "rounded-full"
	if multiple {
		shape, dot = "rounded-lg", "rounded-sm"
	}
	return ui.El("span", ui.Props{
		Class: classnames.Merge(
			shape,
			"bg-white flex items-center justify-center w-7 h-7 border-4 border-theme-800",
			classnames.If(selected, "border-theme-800"),
			classnames.If(!selected, "border-theme-200 group-hover:border-theme-300"),
		),
	}, ui.When(selected, ui.El("span", ui.Props{Class: classnames.Join("block w-3 h-3 bg-theme-800", dot)})))
}

func userList(users []models.PollUser) ui.Node {
	items := make(ui.Fragment, 0, len(users))
	for _, u := range users {
		items = append(items, optionButton(optionButtonProps{
			Props:    ui.Props{Class: "w-full"},
			Multiple: true,
			ReadOnly: true,
		}, ui.Text(u.Name)))
	}
	var empty ui.Node
	if len(users) == 0 {
		empty = ui.El("div", ui.Props{Class: "flex items-center justify-center h-32 w-full text-gray-500 text-2xl font-medium"},
			ui.Text("Keine Benutzer gefunden."))
	}
	return ui.El("div", ui.Props{Class: "flex flex-col w-full gap-4 bg-white justify-start"}, items, empty)
}

func fmtID(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func percent(v float64) string {
	return fmt.Sprintf("%.4g%%", v)
}
