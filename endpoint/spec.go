// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"fmt"
	"maps"

	"github.com/z5labs/instant/schema"
)

// Group maps field names to the validator their value must satisfy.
//
// A nil Group means the group is not declared at all, while an empty,
// non-nil Group is declared with zero required fields.
type Group map[string]schema.Validator

// Requirements lists everything a request must carry for the endpoint
// to accept it.
type Requirements struct {
	Headers      Group
	SearchParams Group
	Body         Group

	// StaticHeaders are sent verbatim by callers, e.g. Content-Type,
	// and are never validated by the handler.
	StaticHeaders map[string]string
}

// Group returns the group declared in slot.
func (r Requirements) Group(slot Slot) Group {
	switch slot {
	case SlotHeaders:
		return r.Headers
	case SlotSearchParams:
		return r.SearchParams
	case SlotBody:
		return r.Body
	default:
		return nil
	}
}

func (r Requirements) clone() Requirements {
	return Requirements{
		Headers:       maps.Clone(r.Headers),
		SearchParams:  maps.Clone(r.SearchParams),
		Body:          maps.Clone(r.Body),
		StaticHeaders: maps.Clone(r.StaticHeaders),
	}
}

// Spec describes an endpoint. Both the [Operation] and the caller
// returned by [New] are derived from it.
type Spec struct {
	URL          string
	Kind         Kind
	Requirements Requirements
}

// Validate reports whether the spec can be used to build an endpoint.
func (s Spec) Validate() error {
	if s.Kind.HttpMethod() == "" {
		return UnknownKindError{Name: s.Kind.String()}
	}

	for _, slot := range slots {
		g := s.Requirements.Group(slot)
		if g == nil {
			continue
		}
		if !s.Kind.Allows(slot) {
			return ForbiddenGroupError{Kind: s.Kind, Slot: slot}
		}

		for name, v := range g {
			if name == "" {
				return EmptyFieldNameError{Slot: slot}
			}
			if v == nil {
				return NilValidatorError{Slot: slot, Field: name}
			}
		}
	}

	if len(s.Requirements.StaticHeaders) > 0 && !s.Kind.Allows(SlotHeaders) {
		return ForbiddenGroupError{Kind: s.Kind, Slot: SlotHeaders}
	}
	return nil
}

// ForbiddenGroupError is returned when a [Spec] declares a group its
// [Kind] does not allow.
type ForbiddenGroupError struct {
	Kind Kind
	Slot Slot
}

// Error implements the [error] interface.
func (e ForbiddenGroupError) Error() string {
	return fmt.Sprintf("%s endpoints may not declare %s", e.Kind, e.Slot)
}

// UnknownKindError is returned for a [Kind] outside of the known set.
type UnknownKindError struct {
	Name string
}

// Error implements the [error] interface.
func (e UnknownKindError) Error() string {
	return fmt.Sprintf("unknown endpoint kind: %s", e.Name)
}

// EmptyFieldNameError is returned when a [Group] contains an empty field name.
type EmptyFieldNameError struct {
	Slot Slot
}

// Error implements the [error] interface.
func (e EmptyFieldNameError) Error() string {
	return fmt.Sprintf("%s contains an empty field name", e.Slot)
}

// NilValidatorError is returned when a [Group] field has no validator.
type NilValidatorError struct {
	Slot  Slot
	Field string
}

// Error implements the [error] interface.
func (e NilValidatorError) Error() string {
	return fmt.Sprintf("%s field %q has a nil validator", e.Slot, e.Field)
}
