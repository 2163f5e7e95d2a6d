// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"github.com/go-viper/mapstructure/v2"
)

// Values holds the fields of a single requirement group keyed by name.
type Values map[string]any

// Decode copies the values into out, which must be a pointer to a struct
// or map. Struct fields are matched using their json tag.
//
// Example:
//
//	var body struct {
//	    Name string `json:"name"`
//	}
//	err := args.Body.Decode(&body)
func (v Values) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(v))
}

// Value returns the named value if it is present and has type T.
func Value[T any](vals Values, name string) (T, bool) {
	t, ok := vals[name].(T)
	return t, ok
}

// Args groups the values of every requirement group.
//
// On the server the groups contain validated values. On the client they
// are the call arguments which get serialized onto the wire.
type Args struct {
	Headers      Values `json:"headers,omitempty"`
	SearchParams Values `json:"searchParams,omitempty"`
	Body         Values `json:"body,omitempty"`
}

// Group returns the values for slot.
func (a Args) Group(slot Slot) Values {
	switch slot {
	case SlotHeaders:
		return a.Headers
	case SlotSearchParams:
		return a.SearchParams
	case SlotBody:
		return a.Body
	default:
		return nil
	}
}

func (a *Args) set(slot Slot, vals Values) {
	switch slot {
	case SlotHeaders:
		a.Headers = vals
	case SlotSearchParams:
		a.SearchParams = vals
	case SlotBody:
		a.Body = vals
	}
}
