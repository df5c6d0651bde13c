// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db holds the client's local storage: a small key/value table that
outlives a single process, the way browser local storage outlives a tab.

# Connecting

Open accepts the storage type and URL from the configuration:

	conn, err := db.Open(db.TypeSQLite, "file:quickly-vote.db")
	if err != nil {
		log.Fatal(err)
	}
	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

SQLite (modernc.org/sqlite, no cgo) is the default. Postgres (lib/pq) is
used when several client processes share one storage.

CreateSchema is safe to call multiple times - uses IF NOT EXISTS.

# Tables

  - local_storage: key, value, updated_at

# Store

Store wraps the table with Get, Set and Delete. Get reports a missing key
with ErrNotFound. Queries are written with ? placeholders and rebound to
$n for postgres.
*/
package db
