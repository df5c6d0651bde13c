// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package api is the HTTP client of the poll backend.

# Wire format

The backend speaks snake_case JSON. Request bodies are encoded with their
keys translated to snake_case and responses are translated back to
camelCase before decoding into the models types. Values under "results"
are option labels mapped to counts and are never translated.

Every request carries the session's bearer token and an X-Request-Id. A
non-2xx response becomes a *StatusError.

# Cache bindings

ListUsersQuery, ListPollsQuery and GetPollQuery bind the reads to their
query keys. The mutations declare which keys they invalidate; deleting a
poll additionally requires the caller to remove PollKey(id).
*/
package api
