// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers that serve the Quickly Vote pages.

# Pages

PageHandler wraps the app and renders one view per route:

	h := handlers.NewPageHandler(application, cfg)

	GET /                  → Home (open polls, archive)
	GET /poll/create       → CreatePoll
	GET /poll/{id}         → Poll (vote, wait or results; ?secret= for link-only polls)
	GET /poll/{id}/share   → SharePoll (invite users, share link with QR code)
	GET /poll/{id}/manage  → ManagePoll (close, delete)
	GET /signin            → SignIn

Revisiting the current route keeps the mounted view and its state; any
other route unmounts it. A navigation pushed by the view is answered with
303 See Other before anything is mounted.

Each page is a full HTML document. While a view wants to be reloaded
(loading, an action in flight, waiting for results) the document carries
a meta refresh. The body style carries the document scroll lock and the
focused element id.

# Events

The page script posts browser events back:

	POST /ui/events  {"target":"home-refresh","type":"click"}
	              →  {"handled":true,"redirect":"/"}

Clicks and changes go to the element with the target id in the page or a
portal; Escape goes to the document key listeners. The script then
follows the redirect or reloads.
*/
package handlers
