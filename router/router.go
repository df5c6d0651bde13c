// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-vote/app"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/handlers"
	"github.com/danielhkuo/quickly-vote/middleware"
)

func NewRouter(a *app.App, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	pageHandler := handlers.NewPageHandler(a, cfg)
	sess := a.Env.Session

	// page wraps a page handler that needs a signed-in user
	page := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.NoCache(middleware.RequireSession(sess, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", pageHandler.Health)

	// Pages
	mux.HandleFunc("GET /{$}", page(pageHandler.Home))
	mux.HandleFunc("GET /poll/create", page(pageHandler.CreatePoll))
	mux.HandleFunc("GET /poll/{id}", page(pageHandler.Poll))
	mux.HandleFunc("GET /poll/{id}/share", page(pageHandler.SharePoll))
	mux.HandleFunc("GET /poll/{id}/manage", page(pageHandler.ManagePoll))

	// Sign-in and the event bridge work without a session
	mux.HandleFunc("GET /signin", middleware.WithLogging(middleware.NoCache(pageHandler.SignIn)))
	mux.HandleFunc("POST /ui/events", middleware.WithLogging(pageHandler.Event))

	return mux
}
