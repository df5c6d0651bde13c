// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/query"
	"github.com/danielhkuo/quickly-vote/ui"
)

// Element ids of the create form.
const (
	CreateTitleID       = "create-title"
	CreateAddOptionID   = "create-add-option"
	CreateChoiceTypeID  = "create-choice-type"
	CreateColorSchemeID = "create-color-scheme"
	CreateSubmitID      = "create-submit"
	createOptionIDFmt   = "create-option-%d"
)

// CreateOptionID is the id of the n-th option input.
func CreateOptionID(n int) string {
	return fmtID(createOptionIDFmt, n)
}

var (
	ErrTitleRequired  = errors.New("title is required")
	ErrTooFewOptions  = errors.New("at least two distinct options are required")
	ErrUnknownChoice  = errors.New("unknown choice type")
	ErrUnknownColor   = errors.New("unknown color scheme")
	errCreateInFlight = errors.New("poll is already being created")
)

// NormalizeOptions drops blank options and duplicates, keeping the first
// occurrence of each label in entry order. Labels are trimmed.
func NormalizeOptions(options []string) []string {
	out := make([]string, 0, len(options))
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}

// CreatePoll is the poll creation form.
type CreatePoll struct {
	controller

	title       *ui.State[string]
	options     *ui.State[[]string]
	choiceType  *ui.State[models.ChoiceType]
	colorScheme *ui.State[models.ColorScheme]
	submit      *ui.Action
}

// NewCreatePoll mounts an empty form with two option inputs.
func NewCreatePoll(env *Env) *CreatePoll {
	v := &CreatePoll{
		title:       ui.NewState(""),
		options:     ui.NewState([]string{"", ""}),
		choiceType:  ui.NewState(models.ChoiceSingle),
		colorScheme: ui.NewState(models.DefaultColorScheme),
		submit:      ui.NewAction(env.MinBusy),
	}
	v.env = env
	v.title.Sync(nil, nil)
	v.options.Sync(nil, nil)
	v.choiceType.Sync(nil, nil)
	v.colorScheme.Sync(nil, nil)
	return v
}

func (v *CreatePoll) SetTitle(title string) {
	v.title.Set(title)
}

// SetOption changes the n-th option. Out of range indexes are ignored.
func (v *CreatePoll) SetOption(n int, value string) {
	v.options.Update(func(opts []string) []string {
		if n < 0 || n >= len(opts) {
			return opts
		}
		next := append([]string(nil), opts...)
		next[n] = value
		return next
	})
}

// AddOption appends an empty option input.
func (v *CreatePoll) AddOption() {
	v.options.Update(func(opts []string) []string {
		return append(append([]string(nil), opts...), "")
	})
}

func (v *CreatePoll) SetChoiceType(c models.ChoiceType) error {
	if c != models.ChoiceSingle && c != models.ChoiceMultiple {
		return fmt.Errorf("%w: %q", ErrUnknownChoice, c)
	}
	v.choiceType.Set(c)
	return nil
}

func (v *CreatePoll) SetColorScheme(c models.ColorScheme) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownColor, c)
	}
	v.colorScheme.Set(c)
	return nil
}

// Request builds the create request from the form, validating it.
func (v *CreatePoll) Request() (models.CreatePollRequest, error) {
	req := models.CreatePollRequest{
		Title:       strings.TrimSpace(v.title.Get()),
		Options:     NormalizeOptions(v.options.Get()),
		ChoiceType:  v.choiceType.Get(),
		ColorScheme: v.colorScheme.Get(),
	}
	if req.Title == "" {
		return req, ErrTitleRequired
	}
	if len(req.Options) < 2 {
		return req, ErrTooFewOptions
	}
	return req, nil
}

// Submit creates the poll and navigates to its share page.
func (v *CreatePoll) Submit(ctx context.Context) (*models.Poll, error) {
	req, err := v.Request()
	if err != nil {
		return nil, err
	}
	if v.submit.Busy() {
		return nil, errCreateInFlight
	}

	var poll *models.Poll
	err = v.submit.Run(ctx, func(ctx context.Context) error {
		var err error
		poll, err = query.Mutate(ctx, v.env.Cache, v.env.API.CreatePollMutation(), req)
		return err
	})
	if err != nil {
		return nil, err
	}
	v.env.Nav.Push(SharePollPath(poll.ID))
	return poll, nil
}

func (v *CreatePoll) RefreshAfter() time.Duration {
	if v.submit.Busy() {
		return busyRefresh
	}
	return 0
}

func (v *CreatePoll) Render(ctx context.Context) ui.Node {
	options := v.options.Get()

	inputs := make(ui.Fragment, 0, len(options))
	for i, o := range options {
		inputs = append(inputs, ui.El("textarea", ui.Props{
			Class: "rounded-5xl bg-white text-gray-900 text-2xl font-semibold flex-1 py-4 px-5 text-left flex items-center gap-3 border-4 border-gray-200 group hover:border-gray-300 hover:bg-gray-200 resize-none",
			Attrs: map[string]string{
				"rows":        "1",
				"placeholder": "Option " + strconv.Itoa(i+1),
			},
		}.WithID(CreateOptionID(i)).On("change", func(e *ui.Event) { v.SetOption(i, e.Value) }), ui.Text(o)))
	}

	choice := v.choiceType.Get()
	choiceOptions := make(ui.Fragment, 0, len(models.ChoiceTypes))
	for _, c := range models.ChoiceTypes {
		choiceOptions = append(choiceOptions, selectOption(string(c), c.Label(), c == choice))
	}

	color := v.colorScheme.Get()
	colorOptions := make(ui.Fragment, 0, len(models.ColorSchemes))
	for _, c := range models.ColorSchemes {
		colorOptions = append(colorOptions, selectOption(string(c.Scheme), c.Label, c.Scheme == color))
	}

	form := ui.El("form", ui.Props{Class: "flex flex-col w-full p-6 gap-10 bg-white justify-start"},
		ui.El("textarea", ui.Props{
			Class: "text-3xl/10 font-bold text-gray-800 hyphens-auto text-balance bg-gray-100 py-4 px-5 rounded-3xl resize-none",
			Attrs: map[string]string{"rows": "3", "placeholder": "Thema der Abstimmung"},
		}.WithID(CreateTitleID).On("change", func(e *ui.Event) { v.SetTitle(e.Value) }), ui.Text(v.title.Get())),

		ui.El("div", ui.Props{Class: "flex flex-col flex-wrap gap-6"},
			inputs,
			ui.El("button", ui.Props{
				Class: "rounded-5xl text-gray-900 text-2xl font-semibold flex-1 py-4 px-5 text-left flex items-center gap-3 border-gray-200 group hover:border-gray-300 hover:bg-gray-200 cursor-pointer",
				Attrs: map[string]string{"type": "button"},
			}.WithID(CreateAddOptionID).On("click", func(*ui.Event) { v.AddOption() }), ui.Text("+ Option hinzufügen")),
		),

		ui.El("div", ui.Props{Class: "flex flex-col w-full gap-10 flex-wrap"},
			labelled("Abstimmungart", selectBox(CreateChoiceTypeID, func(e *ui.Event) {
				v.report(v.SetChoiceType(models.ChoiceType(e.Value)))
			}, choiceOptions)),
			labelled("Farbschema", selectBox(CreateColorSchemeID, func(e *ui.Event) {
				v.report(v.SetColorScheme(models.ColorScheme(e.Value)))
			}, colorOptions)),
		),

		ui.El("span", ui.Props{Class: "text-2xl font-medium text-gray-600"},
			ui.Text("Abstimmungen werden nach spätestens sieben Tagen automatisch beendet und nach spätestens 30 Tagen automatisch gelöscht. Du kannst sie jederzeit manuell beenden oder löschen.")),

		ui.PrimaryButton(ui.ButtonProps{
			Props: ui.Props{}.WithID(CreateSubmitID).On("click", func(e *ui.Event) {
				_, err := v.Submit(e.Context())
				v.report(err)
			}),
			Action: v.submit,
		}, ui.Text("Abstimmung erstellen")),
	)

	header := ui.El("header", ui.Props{Class: "flex flex-col gap-4 p-6 py-8"},
		ui.El("div", ui.Props{Class: "flex items-center justify-end -mt-2"},
			ui.SecondaryButton(ui.ButtonProps{Props: ui.Props{Class: "p-2 px-4 bg-transparent"}, AsChild: true},
				link(PathHome, ui.Props{}, ui.Text("Abbrechen")),
			),
		),
		ui.El("h1", ui.Props{Class: "text-4.5xl/13 font-bold text-black flex items-center gap-3"}, ui.Text("Abstimmung erstellen")),
	)

	return theme("gray",
		ui.El("main", ui.Props{Class: "flex flex-col min-h-full"},
			header,
			errorBanner(v.Err()),
			form,
		),
	)
}

func selectOption(value, label string, selected bool) ui.Node {
	props := ui.Props{}.Attr("value", value)
	if selected {
		props = props.Attr("selected", "")
	}
	return ui.El("option", props, ui.Text(label))
}

func selectBox(id string, onChange ui.Handler, options ui.Node) ui.Node {
	return ui.El("div", ui.Props{Class: "w-full flex-1 relative"},
		ui.El("select", ui.Props{
			Class: "flex items-center gap-4 text-2xl font-semibold text-gray-900 border-4 border-gray-200 bg-gray-200 rounded-5xl py-2 px-4 w-full appearance-none pr-10 hover:border-gray-300 hover:bg-gray-300 cursor-pointer",
		}.WithID(id).On("change", onChange), options),
	)
}

func labelled(label string, control ui.Node) ui.Node {
	return ui.El("div", ui.Props{Class: "flex flex-col gap-4 flex-1"},
		ui.El("label", ui.Props{Class: "flex items-center gap-4 text-2xl font-semibold text-gray-700"}, ui.Text(label)),
		ui.El("div", ui.Props{Class: "flex justify-between items-center"}, control),
	)
}
