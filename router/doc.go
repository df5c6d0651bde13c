// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for Quickly Vote.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(application, cfg)

# Endpoints

Health:

	GET /health

Pages (require a session, otherwise redirect to /signin):

	GET /                 - Open and closed polls
	GET /poll/create      - New poll form
	GET /poll/{id}        - Vote or results
	GET /poll/{id}/share  - Invite users
	GET /poll/{id}/manage - Close or delete

Public:

	GET  /signin    - Sign in with a token
	POST /ui/events - Browser event bridge

Pages are never cached; they depend on the session and the mounted view.
*/
package router
