// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package classnames joins utility class lists and resolves conflicts between them.
package classnames
