// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/swaggest/jsonschema-go"
)

// StringSchema accepts JSON strings.
type StringSchema struct {
	minLength *int
	maxLength *int
	pattern   *regexp.Regexp
	oneOf     []string
}

// StringOption configures a [StringSchema].
type StringOption func(*StringSchema)

// MinLength requires at least n characters.
func MinLength(n int) StringOption {
	return func(s *StringSchema) {
		s.minLength = &n
	}
}

// MaxLength allows at most n characters.
func MaxLength(n int) StringOption {
	return func(s *StringSchema) {
		s.maxLength = &n
	}
}

// Pattern requires the string to match re.
func Pattern(re *regexp.Regexp) StringOption {
	return func(s *StringSchema) {
		s.pattern = re
	}
}

// OneOf restricts the string to the given values.
func OneOf(values ...string) StringOption {
	return func(s *StringSchema) {
		s.oneOf = values
	}
}

// String returns a [Schema] which accepts strings.
//
// Example:
//
//	schema.String(schema.MinLength(1), schema.Pattern(regexp.MustCompile(`^[a-z]+$`)))
func String(opts ...StringOption) *StringSchema {
	s := &StringSchema{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse implements the [Schema] interface.
func (s *StringSchema) Parse(ctx context.Context, v any) (string, error) {
	str, ok := v.(string)
	if !ok {
		return "", TypeMismatchError{Expected: "string", Got: v}
	}

	n := utf8.RuneCountInString(str)
	if s.minLength != nil && n < *s.minLength {
		return "", ConstraintError{
			Constraint: "minLength",
			Detail:     fmt.Sprintf("length %d is less than %d", n, *s.minLength),
		}
	}
	if s.maxLength != nil && n > *s.maxLength {
		return "", ConstraintError{
			Constraint: "maxLength",
			Detail:     fmt.Sprintf("length %d is greater than %d", n, *s.maxLength),
		}
	}
	if s.pattern != nil && !s.pattern.MatchString(str) {
		return "", ConstraintError{
			Constraint: "pattern",
			Detail:     fmt.Sprintf("does not match %s", s.pattern),
		}
	}
	if len(s.oneOf) > 0 && !slices.Contains(s.oneOf, str) {
		return "", ConstraintError{
			Constraint: "enum",
			Detail:     fmt.Sprintf("must be one of [%s]", strings.Join(s.oneOf, ", ")),
		}
	}
	return str, nil
}

// Validate implements the [Validator] interface.
func (s *StringSchema) Validate(ctx context.Context, v any) (any, error) {
	return s.Parse(ctx, v)
}

// JSONSchema implements the [Validator] interface.
func (s *StringSchema) JSONSchema() jsonschema.Schema {
	var js jsonschema.Schema
	js.WithType(jsonschema.String.Type())
	if s.minLength != nil {
		js.WithMinLength(int64(*s.minLength))
	}
	if s.maxLength != nil {
		js.WithMaxLength(int64(*s.maxLength))
	}
	if s.pattern != nil {
		js.WithPattern(s.pattern.String())
	}
	if len(s.oneOf) > 0 {
		enum := make([]any, len(s.oneOf))
		for i, v := range s.oneOf {
			enum[i] = v
		}
		js.WithEnum(enum...)
	}
	return js
}
