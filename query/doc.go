// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package query is the client-side cache of backend reads.

# Keys

Entries are addressed by a Key, a list of strings starting with the
operation name:

	api.PollKey("poll-1") // query.Key{"getPoll", "poll-1"}

Invalidate and Remove select entries by key prefix.

# Entries

Each entry moves through these states:

	uninitialized -> loading -> ready | error
	ready | error -> refetching -> ready | error

An entry keeps its last value through later errors. Concurrent fetches of
one key share a single request (golang.org/x/sync/singleflight); a
caller's context only bounds how long it waits for that request.

# Subscriptions

Subscribe registers a callback that sees every transition of a key in
order. Invalidating a key with live subscriptions refetches it before
Invalidate returns; without subscriptions the entry is only marked stale
and refetched by the next Fetch.

# Mutations

Mutate runs a write and then invalidates the keys it declares, or every
key when it declares none and does not set SkipInvalidate. Refetch errors
after a successful write are logged and do not fail the mutation.

# Polling

StartPolling refetches a query on an interval until a predicate holds for
the fetched value, for example until a poll is closed.
*/
package query
