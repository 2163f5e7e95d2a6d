// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"context"
	"strconv"

	"github.com/swaggest/jsonschema-go"
)

// BooleanOption configures a [BooleanSchema].
type BooleanOption interface {
	applyBooleanOption(*BooleanSchema)
}

// BooleanSchema accepts JSON booleans.
type BooleanSchema struct {
	coerce bool
}

// Boolean returns a [Schema] which accepts true or false.
func Boolean(opts ...BooleanOption) *BooleanSchema {
	s := &BooleanSchema{}
	for _, opt := range opts {
		opt.applyBooleanOption(s)
	}
	return s
}

// Parse implements the [Schema] interface.
func (s *BooleanSchema) Parse(ctx context.Context, v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if !s.coerce {
			break
		}
		pb, err := strconv.ParseBool(b)
		if err == nil {
			return pb, nil
		}
	}
	return false, TypeMismatchError{Expected: "boolean", Got: v}
}

// Validate implements the [Validator] interface.
func (s *BooleanSchema) Validate(ctx context.Context, v any) (any, error) {
	return s.Parse(ctx, v)
}

// JSONSchema implements the [Validator] interface.
func (s *BooleanSchema) JSONSchema() jsonschema.Schema {
	var js jsonschema.Schema
	js.WithType(jsonschema.Boolean.Type())
	return js
}
