// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/swaggest/jsonschema-go"
)

// ArraySchema accepts JSON arrays whose items all conform to an item schema.
type ArraySchema[T any] struct {
	item     Schema[T]
	minItems *int
	maxItems *int
}

// ArrayOption configures the length bounds of an [ArraySchema].
type ArrayOption func(min, max **int)

// MinItems requires at least n items.
func MinItems(n int) ArrayOption {
	return func(min, _ **int) {
		*min = &n
	}
}

// MaxItems allows at most n items.
func MaxItems(n int) ArrayOption {
	return func(_, max **int) {
		*max = &n
	}
}

// Array returns a [Schema] for arrays of item.
//
// Example:
//
//	schema.Array(schema.String(), schema.MinItems(1))
func Array[T any](item Schema[T], opts ...ArrayOption) *ArraySchema[T] {
	s := &ArraySchema[T]{item: item}
	for _, opt := range opts {
		opt(&s.minItems, &s.maxItems)
	}
	return s
}

// Parse implements the [Schema] interface.
func (s *ArraySchema[T]) Parse(ctx context.Context, v any) ([]T, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, TypeMismatchError{Expected: "array", Got: v}
	}
	if s.minItems != nil && len(items) < *s.minItems {
		return nil, ConstraintError{
			Constraint: "minItems",
			Detail:     fmt.Sprintf("%d items is less than %d", len(items), *s.minItems),
		}
	}
	if s.maxItems != nil && len(items) > *s.maxItems {
		return nil, ConstraintError{
			Constraint: "maxItems",
			Detail:     fmt.Sprintf("%d items is greater than %d", len(items), *s.maxItems),
		}
	}

	out := make([]T, len(items))
	var errs []error
	for i, item := range items {
		t, err := s.item.Parse(ctx, item)
		if err != nil {
			errs = append(errs, ItemError{Index: i, Cause: err})
			continue
		}
		out[i] = t
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Validate implements the [Validator] interface.
//
// The validated value is returned as []any so it keeps the same shape
// as decoded JSON.
func (s *ArraySchema[T]) Validate(ctx context.Context, v any) (any, error) {
	ts, err := s.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(ts))
	for i, t := range ts {
		out[i] = t
	}
	return out, nil
}

// JSONSchema implements the [Validator] interface.
func (s *ArraySchema[T]) JSONSchema() jsonschema.Schema {
	ijs := s.item.JSONSchema()
	itemSchema := ijs.ToSchemaOrBool()

	var js jsonschema.Schema
	js.WithType(jsonschema.Array.Type())
	js.WithItems(jsonschema.Items{SchemaOrBool: &itemSchema})
	if s.minItems != nil {
		js.WithMinItems(int64(*s.minItems))
	}
	if s.maxItems != nil {
		js.WithMaxItems(int64(*s.maxItems))
	}
	return js
}
