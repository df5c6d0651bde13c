// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package casing translates object keys between the backend's
// underscore_separated wire convention and the client's camelCase.
//
// The translation walks decoded JSON values (map[string]any, []any and
// leaves) and rewrites keys only; values are never touched. For any key
// set in camelCase without leading digits, ToCamel(ToSnake(x)) == x.
package casing

import (
	"strings"
	"unicode"
)

// SnakeCase turns every upper case letter into '_' plus its lower case form.
func SnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelCase turns every '_' followed by a lower case letter into that
// letter's upper case form. Other underscores are kept.
func CamelCase(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(rs); i++ {
		if rs[i] == '_' && i+1 < len(rs) && unicode.IsLower(rs[i+1]) {
			b.WriteRune(unicode.ToUpper(rs[i+1]))
			i++
			continue
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

// ToSnake rewrites every key under v to snake_case. Values stored under
// a key named in opaque (matched after translation) are copied as is.
func ToSnake(v any, opaque ...string) any {
	return convert(v, SnakeCase, opaque)
}

// ToCamel rewrites every key under v to camelCase. Values stored under
// a key named in opaque (matched after translation) are copied as is,
// which keeps data-bearing maps such as vote results intact.
func ToCamel(v any, opaque ...string) any {
	return convert(v, CamelCase, opaque)
}

func convert(v any, fn func(string) string, opaque []string) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			key := fn(k)
			if contains(opaque, key) {
				out[key] = val
				continue
			}
			out[key] = convert(val, fn, opaque)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = convert(val, fn, opaque)
		}
		return out
	default:
		return v
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
