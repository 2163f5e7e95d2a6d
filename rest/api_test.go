// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/z5labs/instant/endpoint"
	"github.com/z5labs/instant/schema"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Pancake struct {
	Name string `json:"name"`
}

func TestNewApi(t *testing.T) {
	t.Run("serves OpenAPI spec at /openapi.json", func(t *testing.T) {
		api := NewApi("My API", "v2.3.1")

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/openapi.json")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var spec map[string]any
		err = json.NewDecoder(resp.Body).Decode(&spec)
		require.NoError(t, err)

		info := spec["info"].(map[string]any)
		assert.Equal(t, "My API", info["title"])
		assert.Equal(t, "v2.3.1", info["version"])
	})

	t.Run("returns 404 for unknown routes", func(t *testing.T) {
		srv := httptest.NewServer(NewApi("Test", "v1"))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/nope")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("uses a custom 404 handler", func(t *testing.T) {
		api := NewApi("Test", "v1", NotFound(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})))

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/nope")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	})
}

func TestHealth(t *testing.T) {
	t.Run("checks are healthy by default", func(t *testing.T) {
		srv := httptest.NewServer(NewApi("Test", "v1"))
		defer srv.Close()

		for _, path := range []string{"/health/readiness", "/health/liveness"} {
			resp, err := http.Get(srv.URL + path)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		}
	})

	t.Run("readiness follows a Flag", func(t *testing.T) {
		var ready Flag
		srv := httptest.NewServer(NewApi("Test", "v1", Readiness(&ready)))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/health/readiness")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		ready.Raise()

		resp, err = http.Get(srv.URL + "/health/readiness")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("liveness fails if any checker fails", func(t *testing.T) {
		var a, b Flag
		a.Raise()

		srv := httptest.NewServer(NewApi("Test", "v1", Liveness(AllOf(&a, &b))))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/health/liveness")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("Flag can be lowered again", func(t *testing.T) {
		var f Flag
		f.Raise()
		require.NoError(t, f.Check(context.Background()))

		f.Lower()
		require.True(t, errors.Is(f.Check(context.Background()), ErrNotReady))
	})
}

func TestRegister(t *testing.T) {
	t.Run("routes requests by kind and path", func(t *testing.T) {
		get, _, err := endpoint.Get(
			"/pancakes",
			endpoint.Requirements{
				SearchParams: endpoint.Group{"name": schema.String()},
			},
			endpoint.HandlerFunc[Pancake](func(ctx context.Context, r *http.Request, args endpoint.Args) (*Pancake, error) {
				name, _ := endpoint.Value[string](args.SearchParams, "name")
				return &Pancake{Name: name}, nil
			}),
		)
		require.NoError(t, err)

		post, _, err := endpoint.Post(
			"http://localhost/pancakes",
			endpoint.Requirements{
				Body: endpoint.Group{"name": schema.String()},
			},
			endpoint.HandlerFunc[Pancake](func(ctx context.Context, r *http.Request, args endpoint.Args) (*Pancake, error) {
				var p Pancake
				err := args.Body.Decode(&p)
				if err != nil {
					return nil, err
				}
				p.Name = strings.ToUpper(p.Name)
				return &p, nil
			}),
		)
		require.NoError(t, err)

		srv := httptest.NewServer(NewApi("Pancakes", "v1", Register(get), Register(post)))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/pancakes?name=fluffy")
		require.NoError(t, err)
		b, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"fluffy"}`, string(b))

		resp, err = http.Post(srv.URL+"/pancakes", "application/json", strings.NewReader(`{"name":"fluffy"}`))
		require.NoError(t, err)
		b, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"FLUFFY"}`, string(b))

		req, err := http.NewRequest(http.MethodPut, srv.URL+"/pancakes", nil)
		require.NoError(t, err)
		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("describes the endpoint in the OpenAPI document", func(t *testing.T) {
		op, _, err := endpoint.Post(
			"/pancakes",
			endpoint.Requirements{
				Headers:      endpoint.Group{"token": schema.String()},
				SearchParams: endpoint.Group{"page": schema.Integer(schema.Coerce())},
				Body: endpoint.Group{
					"name":  schema.String(schema.MinLength(1)),
					"stack": schema.Integer(schema.Min(1)),
				},
			},
			endpoint.HandlerFunc[Pancake](nil),
		)
		require.NoError(t, err)

		api := NewApi("Pancakes", "v1", Register(op))

		b, err := json.Marshal(api.OpenApi())
		require.NoError(t, err)

		var doc struct {
			Paths map[string]map[string]struct {
				Parameters []struct {
					Name     string `json:"name"`
					In       string `json:"in"`
					Required bool   `json:"required"`
				} `json:"parameters"`
				RequestBody struct {
					Required bool `json:"required"`
					Content  map[string]struct {
						Schema struct {
							Required   []string       `json:"required"`
							Properties map[string]any `json:"properties"`
						} `json:"schema"`
					} `json:"content"`
				} `json:"requestBody"`
				Responses map[string]any `json:"responses"`
			} `json:"paths"`
		}
		err = json.Unmarshal(b, &doc)
		require.NoError(t, err)

		post, ok := doc.Paths["/pancakes"]["post"]
		require.True(t, ok)

		require.Len(t, post.Parameters, 2)
		assert.Equal(t, "token", post.Parameters[0].Name)
		assert.Equal(t, "header", post.Parameters[0].In)
		assert.True(t, post.Parameters[0].Required)
		assert.Equal(t, "page", post.Parameters[1].Name)
		assert.Equal(t, "query", post.Parameters[1].In)

		assert.True(t, post.RequestBody.Required)
		body := post.RequestBody.Content["application/json"].Schema
		assert.Equal(t, []string{"name", "stack"}, body.Required)
		assert.Len(t, body.Properties, 2)

		assert.Contains(t, post.Responses, "200")
	})

	t.Run("panics on an invalid url", func(t *testing.T) {
		op, _, err := endpoint.Get("http://[::1", endpoint.Requirements{}, endpoint.HandlerFunc[Pancake](nil))
		require.NoError(t, err)

		require.Panics(t, func() {
			NewApi("Test", "v1", Register(op))
		})
	})
}
