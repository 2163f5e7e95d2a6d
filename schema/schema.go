// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schema provides the validation capability used to describe
// endpoint requirements.
//
// A [Validator] is a pure function from an untyped value to either a
// validated value or an error. A [Schema] additionally exposes the Go type
// that a successful validation produces, which lets callers recover typed
// values without reflection.
//
// Values are expected in the shape produced by decoding JSON into an
// interface: strings, float64, bool, nil, []any and map[string]any.
package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/swaggest/jsonschema-go"
)

// Validator validates an untyped value.
//
// Implementations must not mutate v and must be safe for concurrent use.
type Validator interface {
	// Validate returns the validated value or an error describing
	// why v does not conform.
	Validate(ctx context.Context, v any) (any, error)

	// JSONSchema describes the accepted values.
	JSONSchema() jsonschema.Schema
}

// Schema is a [Validator] whose successful output has type T.
type Schema[T any] interface {
	Validator

	Parse(ctx context.Context, v any) (T, error)
}

// SafeParse parses v with s and reports whether it conformed.
func SafeParse[T any](ctx context.Context, s Schema[T], v any) (T, bool) {
	t, err := s.Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, false
	}
	return t, true
}

// Is reports whether v conforms to s.
func Is(ctx context.Context, s Validator, v any) bool {
	_, err := s.Validate(ctx, v)
	return err == nil
}

// ErrRequired is reported by [Object] for a declared field which is absent.
var ErrRequired = errors.New("value is required")

// TypeMismatchError is returned when a value is not of the expected JSON type.
type TypeMismatchError struct {
	Expected string
	Got      any
}

// Error implements the [error] interface.
func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("expected %s but got %s", e.Expected, typeName(e.Got))
}

// ConstraintError is returned when a value has the right type but
// violates a rule such as a minimum length.
type ConstraintError struct {
	Constraint string
	Detail     string
}

// Error implements the [error] interface.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("violates %s constraint: %s", e.Constraint, e.Detail)
}

// FieldError wraps the failure of a single [Object] field.
type FieldError struct {
	Field string
	Cause error
}

// Error implements the [error] interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Cause)
}

// Unwrap returns the underlying cause.
func (e FieldError) Unwrap() error {
	return e.Cause
}

// ItemError wraps the failure of a single [Array] element.
type ItemError struct {
	Index int
	Cause error
}

// Error implements the [error] interface.
func (e ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Cause)
}

// Unwrap returns the underlying cause.
func (e ItemError) Unwrap() error {
	return e.Cause
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
