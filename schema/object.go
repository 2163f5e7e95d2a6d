// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/swaggest/jsonschema-go"
)

// ObjectSchema accepts JSON objects with a fixed set of required fields.
// Keys which are not declared are dropped from the validated value.
type ObjectSchema struct {
	fields map[string]Validator
}

// Object returns a [Schema] for objects whose fields all must be present
// and valid.
func Object(fields map[string]Validator) *ObjectSchema {
	return &ObjectSchema{
		fields: maps.Clone(fields),
	}
}

// Parse implements the [Schema] interface.
func (s *ObjectSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, TypeMismatchError{Expected: "object", Got: v}
	}

	out := make(map[string]any, len(s.fields))
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(s.fields)) {
		raw, exists := obj[name]
		if !exists {
			errs = append(errs, FieldError{Field: name, Cause: ErrRequired})
			continue
		}

		fv, err := s.fields[name].Validate(ctx, raw)
		if err != nil {
			errs = append(errs, FieldError{Field: name, Cause: err})
			continue
		}
		out[name] = fv
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Validate implements the [Validator] interface.
func (s *ObjectSchema) Validate(ctx context.Context, v any) (any, error) {
	return s.Parse(ctx, v)
}

// JSONSchema implements the [Validator] interface.
func (s *ObjectSchema) JSONSchema() jsonschema.Schema {
	var js jsonschema.Schema
	js.WithType(jsonschema.Object.Type())

	names := slices.Sorted(maps.Keys(s.fields))
	for _, name := range names {
		fjs := s.fields[name].JSONSchema()
		js.WithPropertiesItem(name, fjs.ToSchemaOrBool())
	}
	if len(names) > 0 {
		js.WithRequired(names...)
	}
	return js
}

// AnySchema accepts every value, including null.
type AnySchema struct{}

// Any returns a [Schema] which never fails.
func Any() AnySchema {
	return AnySchema{}
}

// Parse implements the [Schema] interface.
func (AnySchema) Parse(ctx context.Context, v any) (any, error) {
	return v, nil
}

// Validate implements the [Validator] interface.
func (s AnySchema) Validate(ctx context.Context, v any) (any, error) {
	return s.Parse(ctx, v)
}

// JSONSchema implements the [Validator] interface.
func (AnySchema) JSONSchema() jsonschema.Schema {
	return jsonschema.Schema{}
}
