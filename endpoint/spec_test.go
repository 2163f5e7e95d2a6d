// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"testing"

	"github.com/z5labs/instant/schema"

	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	t.Run("will map kinds to http methods", func(t *testing.T) {
		require.Equal(t, "GET", KindGet.HttpMethod())
		require.Equal(t, "POST", KindPost.HttpMethod())
		require.Equal(t, "GET", KindGetRedirect.HttpMethod())
		require.Equal(t, "", Kind(0).HttpMethod())
	})

	t.Run("will round trip kind names", func(t *testing.T) {
		for _, k := range []Kind{KindGet, KindPost, KindGetRedirect} {
			parsed, err := ParseKind(k.String())
			require.NoError(t, err)
			require.Equal(t, k, parsed)
		}

		_, err := ParseKind("PUT")

		var uke UnknownKindError
		require.ErrorAs(t, err, &uke)
		require.Equal(t, "PUT", uke.Name)
	})

	t.Run("will only allow the groups available to each kind", func(t *testing.T) {
		require.True(t, KindGet.Allows(SlotHeaders))
		require.True(t, KindGet.Allows(SlotSearchParams))
		require.False(t, KindGet.Allows(SlotBody))

		require.True(t, KindPost.Allows(SlotHeaders))
		require.True(t, KindPost.Allows(SlotSearchParams))
		require.True(t, KindPost.Allows(SlotBody))

		require.False(t, KindGetRedirect.Allows(SlotHeaders))
		require.True(t, KindGetRedirect.Allows(SlotSearchParams))
		require.False(t, KindGetRedirect.Allows(SlotBody))
	})
}

func TestSpec_Validate(t *testing.T) {
	t.Run("will return a ForbiddenGroupError", func(t *testing.T) {
		testCases := []struct {
			Name string
			Spec Spec
			Slot Slot
		}{
			{
				Name: "if a GET endpoint declares a body",
				Spec: Spec{
					URL:  "/a",
					Kind: KindGet,
					Requirements: Requirements{
						Body: Group{"name": schema.String()},
					},
				},
				Slot: SlotBody,
			},
			{
				Name: "if a GETREDIRECT endpoint declares headers",
				Spec: Spec{
					URL:  "/a",
					Kind: KindGetRedirect,
					Requirements: Requirements{
						Headers: Group{},
					},
				},
				Slot: SlotHeaders,
			},
			{
				Name: "if a GETREDIRECT endpoint declares static headers",
				Spec: Spec{
					URL:  "/a",
					Kind: KindGetRedirect,
					Requirements: Requirements{
						StaticHeaders: map[string]string{"Accept": "application/json"},
					},
				},
				Slot: SlotHeaders,
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				err := testCase.Spec.Validate()

				var fge ForbiddenGroupError
				require.ErrorAs(t, err, &fge)
				require.Equal(t, testCase.Slot, fge.Slot)
				require.Equal(t, testCase.Spec.Kind, fge.Kind)
			})
		}
	})

	t.Run("will return an UnknownKindError if the kind is not set", func(t *testing.T) {
		err := Spec{URL: "/a"}.Validate()

		var uke UnknownKindError
		require.ErrorAs(t, err, &uke)
	})

	t.Run("will return an EmptyFieldNameError", func(t *testing.T) {
		err := Spec{
			URL:  "/a",
			Kind: KindGet,
			Requirements: Requirements{
				SearchParams: Group{"": schema.String()},
			},
		}.Validate()

		var efne EmptyFieldNameError
		require.ErrorAs(t, err, &efne)
		require.Equal(t, SlotSearchParams, efne.Slot)
	})

	t.Run("will return a NilValidatorError", func(t *testing.T) {
		err := Spec{
			URL:  "/a",
			Kind: KindPost,
			Requirements: Requirements{
				Body: Group{"name": nil},
			},
		}.Validate()

		var nve NilValidatorError
		require.ErrorAs(t, err, &nve)
		require.Equal(t, "name", nve.Field)
	})

	t.Run("will accept every allowed group", func(t *testing.T) {
		err := Spec{
			URL:  "/a",
			Kind: KindPost,
			Requirements: Requirements{
				Headers:       Group{"a": schema.String()},
				SearchParams:  Group{"b": schema.String()},
				Body:          Group{"c": schema.String()},
				StaticHeaders: map[string]string{"Content-Type": "application/json"},
			},
		}.Validate()
		require.NoError(t, err)
	})
}

func TestNew(t *testing.T) {
	h := HandlerFunc[struct{}](nil)

	t.Run("will not share groups with the caller", func(t *testing.T) {
		headers := Group{"a": schema.String()}
		op, _, err := New(Spec{
			URL:          "/a",
			Kind:         KindGet,
			Requirements: Requirements{Headers: headers},
		}, h)
		require.NoError(t, err)

		headers["b"] = schema.String()
		require.Len(t, op.Spec().Requirements.Headers, 1)
	})

	t.Run("will build a Client for GET and POST", func(t *testing.T) {
		for _, k := range []Kind{KindGet, KindPost} {
			_, c, err := New(Spec{URL: "/a", Kind: k}, h)
			require.NoError(t, err)
			require.IsType(t, &Client[struct{}]{}, c)
			require.Equal(t, k, c.Kind())
		}
	})

	t.Run("will build a Redirector for GETREDIRECT", func(t *testing.T) {
		_, c, err := New(Spec{URL: "/a", Kind: KindGetRedirect}, h)
		require.NoError(t, err)
		require.IsType(t, &Redirector{}, c)
	})

	t.Run("will fail for an invalid spec", func(t *testing.T) {
		_, _, err := Get("/a", Requirements{Body: Group{}}, h)

		var fge ForbiddenGroupError
		require.ErrorAs(t, err, &fge)
	})
}

func TestValues_Decode(t *testing.T) {
	t.Run("will decode into a struct using json tags", func(t *testing.T) {
		var out struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		}

		err := Values{"name": "Alice", "count": float64(3)}.Decode(&out)
		require.NoError(t, err)
		require.Equal(t, "Alice", out.Name)
		require.Equal(t, 3, out.Count)
	})

	t.Run("will fail on incompatible types", func(t *testing.T) {
		var out struct {
			Name []int `json:"name"`
		}

		err := Values{"name": "Alice"}.Decode(&out)
		require.Error(t, err)
	})
}

func TestValue(t *testing.T) {
	vals := Values{"name": "Alice"}

	name, ok := Value[string](vals, "name")
	require.True(t, ok)
	require.Equal(t, "Alice", name)

	_, ok = Value[float64](vals, "name")
	require.False(t, ok)

	_, ok = Value[string](vals, "missing")
	require.False(t, ok)
}
