// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/z5labs/instant/endpoint"
	"github.com/z5labs/instant/schema"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Endpoint is the server half of an endpoint, e.g. an [endpoint.Operation].
type Endpoint interface {
	http.Handler

	Spec() endpoint.Spec
}

// ResponseDescriber is implemented by endpoints which can describe their
// successful JSON response.
type ResponseDescriber interface {
	ResponseSchema() (jsonschema.Schema, bool, error)
}

// Register serves ep at the path of its URL and adds it to the OpenAPI
// document. The HTTP method is derived from the endpoint kind.
//
// Register panics if the endpoint cannot be described, e.g. when two
// endpoints share the same method and path.
func Register(ep Endpoint) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		spec := ep.Spec()
		method := spec.Kind.HttpMethod()

		path, err := routePath(spec.URL)
		if err != nil {
			panic(err)
		}

		op, err := describe(ep)
		if err != nil {
			panic(err)
		}

		err = ao.def.AddOperation(method, path, op)
		if err != nil {
			panic(err)
		}

		ao.mux.Method(method, path, otelhttp.WithRouteTag(path, ep))
	})
}

func routePath(rawUrl string) (string, error) {
	u, err := url.Parse(rawUrl)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint url %q: %w", rawUrl, err)
	}
	if u.Path == "" {
		return "/", nil
	}
	return u.Path, nil
}

func describe(ep Endpoint) (openapi3.Operation, error) {
	spec := ep.Spec()

	op := openapi3.Operation{
		Parameters: append(
			parameters(spec.Requirements.Headers, openapi3.ParameterInHeader),
			parameters(spec.Requirements.SearchParams, openapi3.ParameterInQuery)...,
		),
	}
	if spec.Kind == endpoint.KindGetRedirect {
		op.WithTags("redirect")
	}

	if spec.Requirements.Body != nil {
		op.RequestBody = &openapi3.RequestBodyOrRef{
			RequestBody: &openapi3.RequestBody{
				Required: ptr.Ref(true),
				Content: map[string]openapi3.MediaType{
					"application/json": {
						Schema: schemaOrRef(schema.Object(spec.Requirements.Body).JSONSchema()),
					},
				},
			},
		}
	}

	resp, err := response(ep)
	if err != nil {
		return op, err
	}
	op.Responses = openapi3.Responses{
		MapOfResponseOrRefValues: map[string]openapi3.ResponseOrRef{
			strconv.Itoa(http.StatusOK): {Response: resp},
		},
	}
	return op, nil
}

func parameters(g endpoint.Group, in openapi3.ParameterIn) []openapi3.ParameterOrRef {
	params := make([]openapi3.ParameterOrRef, 0, len(g))
	for _, name := range slices.Sorted(maps.Keys(g)) {
		p := &openapi3.Parameter{
			Name:     name,
			In:       in,
			Required: ptr.Ref(true),
			Schema:   schemaOrRef(g[name].JSONSchema()),
		}
		if in == openapi3.ParameterInHeader {
			p.WithDescription("JSON encoded value.")
		}
		params = append(params, openapi3.ParameterOrRef{Parameter: p})
	}
	return params
}

func response(ep Endpoint) (*openapi3.Response, error) {
	resp := &openapi3.Response{
		Description: "Successful response, or the rejection envelope if the requirements weren't met.",
	}

	rejection := rejectionSchema()

	rd, ok := ep.(ResponseDescriber)
	if !ok {
		resp.Content = map[string]openapi3.MediaType{
			"application/json": {Schema: schemaOrRef(rejection)},
		}
		return resp, nil
	}

	success, ok, err := rd.ResponseSchema()
	if err != nil {
		return nil, err
	}
	if !ok {
		resp.Content = map[string]openapi3.MediaType{
			"application/json": {Schema: schemaOrRef(rejection)},
		}
		return resp, nil
	}

	var js jsonschema.Schema
	js.WithOneOf(success.ToSchemaOrBool(), rejection.ToSchemaOrBool())
	resp.Content = map[string]openapi3.MediaType{
		"application/json": {Schema: schemaOrRef(js)},
	}
	return resp, nil
}

func rejectionSchema() jsonschema.Schema {
	var reflector jsonschema.Reflector
	js, err := reflector.Reflect(endpoint.Rejection{}, jsonschema.InlineRefs)
	if err != nil {
		panic(err)
	}
	return js
}

func schemaOrRef(js jsonschema.Schema) *openapi3.SchemaOrRef {
	var sor openapi3.SchemaOrRef
	sor.FromJSONSchema(js.ToSchemaOrBool())
	return &sor
}
