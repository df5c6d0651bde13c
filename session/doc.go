// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package session keeps the viewer's bearer token and the identity read from
// its claims. The token is persisted in local storage under StorageKey and
// reused on start unless it expires within ExpiryMargin.
package session
