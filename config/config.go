// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config provides composable readers for configuration values.
//
// A [Reader] lazily produces a [Value] which may or may not be set. Readers
// are combined to express where a value comes from and what happens when
// it is absent:
//
//	addr := config.MustOr(ctx, ":8080", config.Env("HTTP_ADDR"))
//	timeout := config.Default(5*time.Second, config.DurationFromString(config.Env("HTTP_READ_TIMEOUT")))
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Value is the result of reading a [Reader]. The zero value is unset.
type Value[T any] struct {
	value T
	set   bool
}

// ValueOf returns a set [Value] holding v.
func ValueOf[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

// Value returns the held value and whether it was set.
func (v Value[T]) Value() (T, bool) {
	return v.value, v.set
}

// Reader produces a configuration value.
type Reader[T any] interface {
	Read(context.Context) (Value[T], error)
}

// ReaderFunc is a function adapter that implements [Reader].
type ReaderFunc[T any] func(context.Context) (Value[T], error)

// Read implements the [Reader] interface.
func (f ReaderFunc[T]) Read(ctx context.Context) (Value[T], error) {
	return f(ctx)
}

// EmptyReader returns a [Reader] which never sets a value.
func EmptyReader[T any]() Reader[T] {
	return ReaderFunc[T](func(context.Context) (Value[T], error) {
		return Value[T]{}, nil
	})
}

// ReaderOf returns a [Reader] which always sets v.
func ReaderOf[T any](v T) Reader[T] {
	return ReaderFunc[T](func(context.Context) (Value[T], error) {
		return ValueOf(v), nil
	})
}

// ErrValueNotSet is returned by [Read] and panicked by [Must] when a
// reader produced no value.
var ErrValueNotSet = errors.New("config value is not set")

func read[T any](ctx context.Context, r Reader[T]) (Value[T], error) {
	if r == nil {
		return Value[T]{}, nil
	}
	return r.Read(ctx)
}

// Read returns the value produced by r. It returns [ErrValueNotSet] if
// r did not set a value.
func Read[T any](ctx context.Context, r Reader[T]) (T, error) {
	v, err := read(ctx, r)
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := v.Value()
	if !ok {
		return t, ErrValueNotSet
	}
	return t, nil
}

// Must is like [Read] but panics on any error.
func Must[T any](ctx context.Context, r Reader[T]) T {
	t, err := Read(ctx, r)
	if err != nil {
		panic(err)
	}
	return t
}

// MustOr returns def if r does not set a value. It panics if r fails.
func MustOr[T any](ctx context.Context, def T, r Reader[T]) T {
	v, err := read(ctx, r)
	if err != nil {
		panic(err)
	}
	t, ok := v.Value()
	if !ok {
		return def
	}
	return t
}

// Or returns the first value set by rs.
func Or[T any](rs ...Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		for _, r := range rs {
			v, err := read(ctx, r)
			if err != nil {
				return Value[T]{}, err
			}
			if _, ok := v.Value(); ok {
				return v, nil
			}
		}
		return Value[T]{}, nil
	})
}

// Default sets def whenever r does not set a value.
func Default[T any](def T, r Reader[T]) Reader[T] {
	return Or(r, ReaderOf(def))
}

// Map transforms a set value with f. Unset values stay unset.
func Map[A, B any](r Reader[A], f func(context.Context, A) (B, error)) Reader[B] {
	return ReaderFunc[B](func(ctx context.Context) (Value[B], error) {
		v, err := read(ctx, r)
		if err != nil {
			return Value[B]{}, err
		}
		a, ok := v.Value()
		if !ok {
			return Value[B]{}, nil
		}
		b, err := f(ctx, a)
		if err != nil {
			return Value[B]{}, err
		}
		return ValueOf(b), nil
	})
}

// Env reads the named environment variable. An empty or missing variable is unset.
func Env(name string) Reader[string] {
	return ReaderFunc[string](func(context.Context) (Value[string], error) {
		s, ok := os.LookupEnv(name)
		if !ok || s == "" {
			return Value[string]{}, nil
		}
		return ValueOf(s), nil
	})
}

// ParseError is returned when a string value could not be converted.
type ParseError struct {
	Value string
	Type  string
	Cause error
}

// Error implements the [error] interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("failed to parse %q as %s: %v", e.Value, e.Type, e.Cause)
}

// Unwrap returns the underlying cause.
func (e ParseError) Unwrap() error {
	return e.Cause
}
