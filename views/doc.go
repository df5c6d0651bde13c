// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package views implements the page-level controllers of the poll lifecycle.

# Pages

  - Home: open polls, closed polls behind a toggle, refresh, sign out
  - CreatePoll: title, options, choice type and color scheme
  - PollDetail: vote form, waiting notice or results; polls until closed
  - SharePoll: invite users and show the share link with a QR code
  - ManagePoll: close or delete the poll and list its members
  - SignIn: accept a token from the auth provider

# Lifecycle

A view is created when its page is shown and unmounted when another page
replaces it. Creating a view subscribes it to the cache keys it reads and
starts loading them in the background. Unmount closes the subscriptions,
stops polling and unmounts the view's dialogs; cache updates and action
results that arrive afterwards are dropped.

Actions that need confirmation (vote, close, delete) open their dialog
synchronously and continue in the background once answered. Failed
actions are shown as a banner on the page.

Navigation requested by a view is queued on the Navigator and applied by
the HTTP layer on the next response.
*/
package views
