// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

func parse[T any](typ string, f func(string) (T, error)) func(context.Context, string) (T, error) {
	return func(_ context.Context, s string) (T, error) {
		t, err := f(s)
		if err != nil {
			var zero T
			return zero, ParseError{Value: s, Type: typ, Cause: err}
		}
		return t, nil
	}
}

// IntFromString parses the string produced by r as a base 10 int.
func IntFromString(r Reader[string]) Reader[int] {
	return Map(r, parse("int", strconv.Atoi))
}

// Int64FromString parses the string produced by r as a base 10 int64.
func Int64FromString(r Reader[string]) Reader[int64] {
	return Map(r, parse("int64", func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	}))
}

// Float64FromString parses the string produced by r as a float64.
func Float64FromString(r Reader[string]) Reader[float64] {
	return Map(r, parse("float64", func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}))
}

// BoolFromString parses the string produced by r with [strconv.ParseBool].
func BoolFromString(r Reader[string]) Reader[bool] {
	return Map(r, parse("bool", strconv.ParseBool))
}

// DurationFromString parses the string produced by r with [time.ParseDuration].
func DurationFromString(r Reader[string]) Reader[time.Duration] {
	return Map(r, parse("duration", time.ParseDuration))
}

// UnmarshalJSON decodes the JSON document produced by r into T.
func UnmarshalJSON[T any, R io.Reader](r Reader[R]) Reader[T] {
	return Map(r, func(_ context.Context, src R) (T, error) {
		var t T
		err := json.NewDecoder(src).Decode(&t)
		return t, err
	})
}

// UnmarshalYAML decodes the YAML document produced by r into T.
func UnmarshalYAML[T any, R io.Reader](r Reader[R]) Reader[T] {
	return Map(r, func(_ context.Context, src R) (T, error) {
		var t T
		err := yaml.NewDecoder(src).Decode(&t)
		return t, err
	})
}
