// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Vote web client.

Quickly Vote lets a group create polls, invite members, vote once with a
single or multiple choice and see the results once the owner closes the
poll. Pages are rendered on the server from view controllers that talk to
the poll backend through a query cache.

# Starting the Server

	API_BASE_URL=https://polls.example go run .

Or with flags:

	go run . -p 3318 -api https://polls.example -d file:quickly-vote.db

# Configuration

  - PORT (-p): Server port (default: 3318)
  - API_BASE_URL (-api): Poll backend (default: http://localhost:8000)
  - STORAGE_URL (-d) and STORAGE_TYPE (-t): Local storage holding the
    session token, sqlite (default) or postgres
  - PUBLIC_URL (-public): Base of share links
  - POLL_INTERVAL, MIN_BUSY: Result polling and busy indicator timing

A .env file is read when present.

# Architecture

  - ui, classnames: Element tree, slots, prop merging, state and actions
  - dom, dialog, confirm: Document, portals, focus, scroll lock and dialogs
  - query, casing, api: Query cache and the snake_case backend client
  - session, db: Token session persisted in local storage
  - views, app: Page controllers and the mounted page
  - handlers, router, middleware: HTTP pages and the browser event bridge
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
