// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"strings"

	"github.com/danielhkuo/quickly-vote/ui"
)

// Element ids of the sign-in page.
const (
	SignInTokenID  = "signin-token"
	SignInSubmitID = "signin-submit"
)

// SignIn accepts the token issued by the auth provider.
type SignIn struct {
	controller

	next   string
	token  *ui.State[string]
	submit *ui.Action
}

// NewSignIn mounts the sign-in form. After signing in the browser goes to
// next when it is a local path, and home otherwise.
func NewSignIn(env *Env, next string) *SignIn {
	if !LocalPath(next) {
		next = PathHome
	}
	v := &SignIn{
		next:   next,
		token:  ui.NewState(""),
		submit: ui.NewAction(env.MinBusy),
	}
	v.env = env
	v.token.Sync(nil, nil)
	return v
}

func (v *SignIn) SetToken(token string) {
	v.token.Set(strings.TrimSpace(token))
}

// LocalPath reports whether p is an absolute path on this host.
func LocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

// Submit signs in with the entered token and navigates on.
func (v *SignIn) Submit(ctx context.Context) error {
	err := v.submit.Run(ctx, func(ctx context.Context) error {
		return v.env.Session.SignIn(ctx, v.token.Get())
	})
	if err != nil {
		return err
	}
	v.token.Set("")
	v.env.Cache.Clear()
	v.env.Nav.Push(v.next)
	return nil
}

func (v *SignIn) Render(ctx context.Context) ui.Node {
	return theme("gray",
		ui.El("main", ui.Props{Class: "flex flex-col min-h-full items-stretch justify-center gap-8 p-6"},
			ui.El("h1", ui.Props{Class: "text-4.5xl/13 font-bold text-black text-center"}, ui.Text("Anmelden")),
			errorBanner(v.Err()),
			ui.El("textarea", ui.Props{
				Class: "rounded-3xl bg-gray-100 text-gray-800 text-xl font-mono py-4 px-5 resize-none",
				Attrs: map[string]string{"rows": "4", "placeholder": "Token", "autocomplete": "off"},
			}.WithID(SignInTokenID).On("change", func(e *ui.Event) { v.SetToken(e.Value) }), ui.Text(v.token.Get())),
			ui.PrimaryButton(ui.ButtonProps{
				Props: ui.Props{}.WithID(SignInSubmitID).On("click", func(e *ui.Event) {
					v.report(v.Submit(e.Context()))
				}),
				Action: v.submit,
			}, ui.Text("Anmelden")),
		),
	)
}
