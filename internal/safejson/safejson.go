// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package safejson provides best-effort JSON decoding of untrusted strings.
package safejson

import "github.com/goccy/go-json"

// Parse attempts to decode s as a single JSON value.
//
// Parse never panics. Malformed input, trailing data or an empty
// string all report false. JSON numbers decode to float64, objects to
// map[string]any and arrays to []any.
func Parse(s string) (v any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = nil, false
		}
	}()

	err := json.Unmarshal([]byte(s), &v)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Stringify encodes v as compact JSON text.
func Stringify(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
