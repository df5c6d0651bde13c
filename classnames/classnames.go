// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package classnames

import (
	"sort"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// Join flattens class arguments into one space separated string.
// Accepts string, []string and map[string]bool (true keys, sorted). Any
// other value, nil included, contributes nothing.
func Join(classes ...any) string {
	var parts []string
	for _, c := range classes {
		switch v := c.(type) {
		case string:
			parts = append(parts, strings.Fields(v)...)
		case []string:
			for _, s := range v {
				parts = append(parts, strings.Fields(s)...)
			}
		case map[string]bool:
			keys := make([]string, 0, len(v))
			for k, on := range v {
				if on {
					keys = append(keys, k)
				}
			}
			sort.Strings(keys)
			for _, k := range keys {
				parts = append(parts, strings.Fields(k)...)
			}
		}
	}
	return strings.Join(parts, " ")
}

// If returns class when cond holds, otherwise the empty string.
func If(cond bool, class string) string {
	if cond {
		return class
	}
	return ""
}

// Merge joins classes and resolves conflicting utility classes. When two
// classes set the same property under the same variants, the later one
// wins, so a shorthand such as p-2 drops an earlier px-6 or py-4.
func Merge(classes ...any) string {
	return twmerge.Merge(Join(classes...))
}
