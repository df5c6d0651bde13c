// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-vote/app"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/ui"
	"github.com/danielhkuo/quickly-vote/views"
)

// SettleTimeout bounds how long a page request waits for a freshly
// mounted view to load its data before rendering placeholders.
const SettleTimeout = 2 * time.Second

type PageHandler struct {
	app    *app.App
	cfg    cliparse.Config
	settle time.Duration
}

func NewPageHandler(a *app.App, cfg cliparse.Config) *PageHandler {
	return &PageHandler{app: a, cfg: cfg, settle: SettleTimeout}
}

// Home handles GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, views.PathHome, func(env *views.Env) views.View {
		return views.NewHome(env)
	})
}

// CreatePoll handles GET /poll/create
func (h *PageHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, views.PathCreatePoll, func(env *views.Env) views.View {
		return views.NewCreatePoll(env)
	})
}

// Poll handles GET /poll/{id}. The secret query parameter grants access
// to link-only polls.
func (h *PageHandler) Poll(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	secret := r.URL.Query().Get("secret")

	route := views.PollPath(id)
	if secret != "" {
		route += "?" + url.Values{"secret": {secret}}.Encode()
	}
	h.show(w, r, route, func(env *views.Env) views.View {
		return views.NewPollDetail(env, id, secret)
	})
}

// SharePoll handles GET /poll/{id}/share
func (h *PageHandler) SharePoll(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.show(w, r, views.SharePollPath(id), func(env *views.Env) views.View {
		return views.NewSharePoll(env, id)
	})
}

// ManagePoll handles GET /poll/{id}/manage
func (h *PageHandler) ManagePoll(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.show(w, r, views.ManagePollPath(id), func(env *views.Env) views.View {
		return views.NewManagePoll(env, id)
	})
}

// SignIn handles GET /signin. Signed-in users go straight on.
func (h *PageHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if !views.LocalPath(next) {
		next = views.PathHome
	}
	if h.app.Env.Session.Authenticated() {
		h.app.Env.Nav.Take()
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	h.show(w, r, views.PathSignIn+"?next="+url.QueryEscape(next), func(env *views.Env) views.View {
		return views.NewSignIn(env, next)
	})
}

// Health handles GET /health
func (h *PageHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// show follows a navigation requested by the current view, or mounts the
// view for route and renders it.
func (h *PageHandler) show(w http.ResponseWriter, r *http.Request, route string, build func(*views.Env) views.View) {
	if next, ok := h.app.Env.Nav.Take(); ok && next != r.URL.RequestURI() {
		slog.Debug("following view navigation", "from", r.URL.RequestURI(), "to", next)
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	h.app.Show(route, build)
	h.app.Settle(h.settle)
	h.render(w, r)
}

// canonicalURL is the public address of the requested page.
func (h *PageHandler) canonicalURL(r *http.Request) string {
	if h.cfg.PublicURL == "" {
		return ""
	}
	return strings.TrimRight(h.cfg.PublicURL, "/") + r.URL.Path
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request) {
	page, portals := h.app.Render(r.Context())
	doc := h.app.Env.Doc

	var buf bytes.Buffer
	err := ui.RenderDocument(&buf, layout(layoutData{
		Title:     "Quickly Vote",
		Canonical: h.canonicalURL(r),
		Page:      page,
		Portals:   portals,
		BodyStyle: doc.BodyStyle(),
		Focus:     doc.ActiveElement(),
		Refresh:   h.app.RefreshAfter(),
	}))
	if err != nil {
		slog.Error("failed to render page", "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
