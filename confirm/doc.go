// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package confirm wraps a dialog into a yes/no prompt that can be awaited.
// Every way of dismissing the dialog answers no.
package confirm
