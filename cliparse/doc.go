// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - APIBaseURL: Poll backend base URL (default: http://localhost:8000)
  - StorageURL: Local storage URL (default: file:quickly-vote.db)
  - StorageType: sqlite or postgres (default: sqlite)
  - PublicURL: Base URL used in share links (default: http://localhost:<port>)
  - PollInterval: Refetch interval while waiting for results (default: 5s)
  - MinBusy: Minimum busy indicator duration (default: 500ms)

# CLI Flags

	-p              Server port
	-api            Poll backend base URL
	-d              Local storage URL
	-t              Local storage type
	-public         Public base URL
	-poll-interval  Refetch interval
	-min-busy       Minimum busy duration

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	API_BASE_URL  → -api
	STORAGE_URL   → -d
	STORAGE_TYPE  → -t
	PUBLIC_URL    → -public
	POLL_INTERVAL → -poll-interval
	MIN_BUSY      → -min-busy

A .env file in the working directory is loaded first when present;
variables already set in the environment win over the file. CLI flags
take precedence over both.

# Validation

ParseFlags returns an error for an out of range port, an unknown storage
type, a non-positive poll interval or a negative busy duration.
*/
package cliparse
