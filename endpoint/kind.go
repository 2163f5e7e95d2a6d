// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"fmt"
	"net/http"
)

// Kind determines both the HTTP method of an endpoint and which
// requirement groups it may declare.
type Kind int

const (
	// KindGet endpoints accept headers and search params.
	KindGet Kind = iota + 1

	// KindPost endpoints accept headers, search params and a JSON body.
	KindPost

	// KindGetRedirect endpoints are served as GET but are called by
	// navigating to them instead of issuing a request. They only accept
	// search params.
	KindGetRedirect
)

// String implements the [fmt.Stringer] interface.
func (k Kind) String() string {
	switch k {
	case KindGet:
		return "GET"
	case KindPost:
		return "POST"
	case KindGetRedirect:
		return "GETREDIRECT"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// HttpMethod returns the method used on the wire.
func (k Kind) HttpMethod() string {
	switch k {
	case KindGet, KindGetRedirect:
		return http.MethodGet
	case KindPost:
		return http.MethodPost
	default:
		return ""
	}
}

// Allows reports whether an endpoint of this kind may declare the group in slot.
func (k Kind) Allows(slot Slot) bool {
	switch k {
	case KindGet:
		return slot == SlotHeaders || slot == SlotSearchParams
	case KindPost:
		return slot == SlotHeaders || slot == SlotSearchParams || slot == SlotBody
	case KindGetRedirect:
		return slot == SlotSearchParams
	default:
		return false
	}
}

// ParseKind maps the names returned by [Kind.String] back to a [Kind].
func ParseKind(s string) (Kind, error) {
	switch s {
	case "GET":
		return KindGet, nil
	case "POST":
		return KindPost, nil
	case "GETREDIRECT":
		return KindGetRedirect, nil
	default:
		return 0, UnknownKindError{Name: s}
	}
}

// Slot names one of the requirement groups.
type Slot string

const (
	SlotHeaders      Slot = "headers"
	SlotSearchParams Slot = "searchParams"
	SlotBody         Slot = "body"
)

var slots = []Slot{SlotHeaders, SlotSearchParams, SlotBody}
