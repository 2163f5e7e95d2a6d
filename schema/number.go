// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/swaggest/jsonschema-go"
)

type numberRules struct {
	min    *float64
	max    *float64
	coerce bool
}

// NumberOption configures a [NumberSchema] or [IntegerSchema].
type NumberOption interface {
	applyNumberOption(*numberRules)
}

type numberOptionFunc func(*numberRules)

func (f numberOptionFunc) applyNumberOption(nr *numberRules) {
	f(nr)
}

// Min requires the number to be greater than or equal to n.
func Min(n float64) NumberOption {
	return numberOptionFunc(func(nr *numberRules) {
		nr.min = &n
	})
}

// Max requires the number to be less than or equal to n.
func Max(n float64) NumberOption {
	return numberOptionFunc(func(nr *numberRules) {
		nr.max = &n
	})
}

// CoerceOption is returned by [Coerce]. It can be passed to [Number],
// [Integer] and [Boolean].
type CoerceOption struct{}

func (CoerceOption) applyNumberOption(nr *numberRules) {
	nr.coerce = true
}

func (CoerceOption) applyBooleanOption(bs *BooleanSchema) {
	bs.coerce = true
}

// Coerce allows a schema to also accept the string spelling of its
// values, e.g. "42" for [Number] or "true" for [Boolean].
//
// This is mainly useful for search params, which are always validated
// as raw strings.
func Coerce() CoerceOption {
	return CoerceOption{}
}

func (nr numberRules) parse(v any) (float64, error) {
	f, ok := toFloat(v)
	if !ok && nr.coerce {
		f, ok = coerceFloat(v)
	}
	if !ok {
		return 0, TypeMismatchError{Expected: "number", Got: v}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ConstraintError{Constraint: "finite", Detail: "number must be finite"}
	}
	if nr.min != nil && f < *nr.min {
		return 0, ConstraintError{
			Constraint: "minimum",
			Detail:     fmt.Sprintf("%v is less than %v", f, *nr.min),
		}
	}
	if nr.max != nil && f > *nr.max {
		return 0, ConstraintError{
			Constraint: "maximum",
			Detail:     fmt.Sprintf("%v is greater than %v", f, *nr.max),
		}
	}
	return f, nil
}

func (nr numberRules) apply(js *jsonschema.Schema) {
	if nr.min != nil {
		js.WithMinimum(*nr.min)
	}
	if nr.max != nil {
		js.WithMaximum(*nr.max)
	}
}

// NumberSchema accepts JSON numbers.
type NumberSchema struct {
	rules numberRules
}

// Number returns a [Schema] which accepts any finite number.
func Number(opts ...NumberOption) *NumberSchema {
	s := &NumberSchema{}
	for _, opt := range opts {
		opt.applyNumberOption(&s.rules)
	}
	return s
}

// Parse implements the [Schema] interface.
func (s *NumberSchema) Parse(ctx context.Context, v any) (float64, error) {
	return s.rules.parse(v)
}

// Validate implements the [Validator] interface.
func (s *NumberSchema) Validate(ctx context.Context, v any) (any, error) {
	return s.Parse(ctx, v)
}

// JSONSchema implements the [Validator] interface.
func (s *NumberSchema) JSONSchema() jsonschema.Schema {
	var js jsonschema.Schema
	js.WithType(jsonschema.Number.Type())
	s.rules.apply(&js)
	return js
}

// IntegerSchema accepts JSON numbers without a fractional part.
type IntegerSchema struct {
	rules numberRules
}

// Integer returns a [Schema] which accepts whole numbers.
func Integer(opts ...NumberOption) *IntegerSchema {
	s := &IntegerSchema{}
	for _, opt := range opts {
		opt.applyNumberOption(&s.rules)
	}
	return s
}

// Parse implements the [Schema] interface.
func (s *IntegerSchema) Parse(ctx context.Context, v any) (int64, error) {
	f, err := s.rules.parse(v)
	if err != nil {
		var tme TypeMismatchError
		if errors.As(err, &tme) {
			tme.Expected = "integer"
			return 0, tme
		}
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, TypeMismatchError{Expected: "integer", Got: v}
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, ConstraintError{Constraint: "range", Detail: "integer overflows int64"}
	}
	return int64(f), nil
}

// Validate implements the [Validator] interface.
func (s *IntegerSchema) Validate(ctx context.Context, v any) (any, error) {
	return s.Parse(ctx, v)
}

// JSONSchema implements the [Validator] interface.
func (s *IntegerSchema) JSONSchema() jsonschema.Schema {
	var js jsonschema.Schema
	js.WithType(jsonschema.Integer.Type())
	s.rules.apply(&js)
	return js
}

type float64er interface {
	Float64() (float64, error)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64er:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceFloat(v any) (float64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
