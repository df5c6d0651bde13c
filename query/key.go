// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package query

import "strings"

// Key addresses a cached read: operation name followed by identifiers.
type Key []string

const keySep = "\x1f"

// String is the canonical form used for map lookups.
func (k Key) String() string {
	return strings.Join(k, keySep)
}

// HasPrefix reports whether k starts with every element of prefix.
// The empty prefix matches every key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Equal reports whether both keys have the same elements.
func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}

// Status is the lifecycle state of a cache entry.
type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusReady
	StatusError
	StatusRefetching
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	case StatusRefetching:
		return "refetching"
	}
	return "uninitialized"
}

// Fetching reports whether a request is in flight.
func (s Status) Fetching() bool {
	return s == StatusLoading || s == StatusRefetching
}
