// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the client-side shapes of users, polls and the
request bodies sent to the poll backend.

Field names are camelCase in JSON. The api package translates them to and
from the backend's underscore convention at the wire boundary, so nothing
in this package knows about snake_case.

# Request Types

  - CreatePollRequest: title, options, choiceType, accessType, colorScheme
  - AddPollUsersRequest: users
  - VoteRequest: values, secret

# Domain Types

  - User: name, email (identity key), imageUrl
  - PollUser: a User plus its per-poll status
  - Poll: poll metadata, members and, once closed, results

# Constants

Poll status, monotonic:

	StatusDraft  = "DRAFT"
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"

Poll user status, monotonic:

	UserEligible = "ELIGIBLE"
	UserVoted    = "VOTED"

Choice types:

	ChoiceSingle   = "SINGLE"
	ChoiceMultiple = "MULTIPLE"

Access types:

	AccessPublic     = "PUBLIC"
	AccessLinkOnly   = "LINK_ONLY"
	AccessInviteOnly = "INVITE_ONLY"

Color schemes are listed in ColorSchemes; DefaultColorScheme is INDIGO.
*/
package models
