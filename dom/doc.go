// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package dom models the document-level state shared by every page: the
// focused element, the body scroll lock, document key listeners and the
// portal root that dialogs render into.
//
// Scroll locks are counted, so nested dialogs keep the body locked until
// the last one closes.
package dom
