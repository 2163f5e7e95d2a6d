// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/z5labs/instant/internal/safejson"

	"github.com/goccy/go-json"
)

// DefaultMaxBodyBytes is used when [MaxBodyBytes] is not configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// ErrBodyTooLarge is the cause of a body [DecodeFailureError] when the
// request body exceeds the configured limit.
var ErrBodyTooLarge = errors.New("request body too large")

// ErrUndecodable is the cause of a header [DecodeFailureError].
var ErrUndecodable = errors.New("value is not valid json")

// GroupResult is the outcome of extracting a single requirement group.
//
// Values is nil if and only if the group is broken, in which case Issues
// describes every field which failed.
type GroupResult struct {
	Slot   Slot
	Values Values
	Issues []error
}

// Broken reports whether any field of the group failed.
func (gr GroupResult) Broken() bool {
	return len(gr.Issues) > 0
}

// LogValue implements the [slog.LogValuer] interface.
func (gr GroupResult) LogValue() slog.Value {
	if gr.Broken() {
		issues := make([]string, len(gr.Issues))
		for i, issue := range gr.Issues {
			issues[i] = issue.Error()
		}
		return slog.GroupValue(
			slog.Bool("broken", true),
			slog.Any("issues", issues),
		)
	}
	return slog.GroupValue(
		slog.Bool("broken", false),
		slog.Any("values", map[string]any(gr.Values)),
	)
}

func result(slot Slot, vals Values, issues []error) GroupResult {
	if len(issues) > 0 {
		return GroupResult{Slot: slot, Issues: issues}
	}
	return GroupResult{Slot: slot, Values: vals}
}

// ExtractHeaders validates every field of g against the request headers.
//
// Header values are expected to be JSON encoded, e.g. a string field is
// sent as "\"hello\"". Only the first value of a header is considered.
// A valid field yields its decoded value as sent, not the validator output.
func ExtractHeaders(ctx context.Context, r *http.Request, g Group) GroupResult {
	vals := make(Values, len(g))
	var issues []error
	for name, validator := range g {
		raw := r.Header.Values(name)
		if len(raw) == 0 {
			issues = append(issues, FieldMissingError{Slot: SlotHeaders, Field: name})
			continue
		}

		decoded, ok := safejson.Parse(raw[0])
		if !ok {
			issues = append(issues, DecodeFailureError{
				Slot:  SlotHeaders,
				Field: name,
				Cause: ErrUndecodable,
			})
			continue
		}

		_, err := validator.Validate(ctx, decoded)
		if err != nil {
			issues = append(issues, SchemaViolationError{Slot: SlotHeaders, Field: name, Cause: err})
			continue
		}
		vals[name] = decoded
	}
	return result(SlotHeaders, vals, issues)
}

// ExtractSearchParams validates every field of g against the request query.
//
// Unlike headers, search params are validated as raw strings and the raw
// string is what gets returned. Use [schema.Coerce] for non-string fields.
// An empty value counts as missing.
func ExtractSearchParams(ctx context.Context, r *http.Request, g Group) GroupResult {
	query := r.URL.Query()

	vals := make(Values, len(g))
	var issues []error
	for name, validator := range g {
		raw := query.Get(name)
		if raw == "" {
			issues = append(issues, FieldMissingError{Slot: SlotSearchParams, Field: name})
			continue
		}

		_, err := validator.Validate(ctx, raw)
		if err != nil {
			issues = append(issues, SchemaViolationError{Slot: SlotSearchParams, Field: name, Cause: err})
			continue
		}
		vals[name] = raw
	}
	return result(SlotSearchParams, vals, issues)
}

// ExtractBody validates every field of g against the JSON object sent as
// the request body. Keys which are not declared are ignored. A valid field
// yields its value exactly as decoded from the body.
//
// The body is restored after reading so it can be extracted again or
// read by the business logic.
func ExtractBody(ctx context.Context, r *http.Request, g Group, maxBytes int64) GroupResult {
	obj, err := readJsonObject(r, maxBytes)
	if err != nil {
		return GroupResult{
			Slot:   SlotBody,
			Issues: []error{DecodeFailureError{Slot: SlotBody, Cause: err}},
		}
	}

	vals := make(Values, len(g))
	var issues []error
	for name, validator := range g {
		raw, exists := obj[name]
		if !exists {
			issues = append(issues, FieldMissingError{Slot: SlotBody, Field: name})
			continue
		}

		_, err := validator.Validate(ctx, raw)
		if err != nil {
			issues = append(issues, SchemaViolationError{Slot: SlotBody, Field: name, Cause: err})
			continue
		}
		vals[name] = raw
	}
	return result(SlotBody, vals, issues)
}

func readJsonObject(r *http.Request, maxBytes int64) (map[string]any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, io.ErrUnexpectedEOF
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	b, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	r.Body = io.NopCloser(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > maxBytes {
		return nil, ErrBodyTooLarge
	}

	var v any
	err = json.Unmarshal(b, &v)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a json object but got %T", v)
	}
	return obj, nil
}
