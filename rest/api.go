// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"log/slog"
	"net/http"

	"github.com/z5labs/instant"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/swaggest/openapi-go/openapi3"
)

// ApiOptions holds configuration values used when constructing an [Api].
type ApiOptions struct {
	mux       *chi.Mux
	def       *openapi3.Spec
	log       *slog.Logger
	readiness Checker
	liveness  Checker
}

// ApiOption configures an [Api].
//
// Common implementations include:
//   - [Register] - serves an endpoint
//   - [Readiness] - configures the readiness check
//   - [Liveness] - configures the liveness check
//   - [NotFound] - customizes 404 handling
//   - [MethodNotAllowed] - customizes 405 handling
type ApiOption interface {
	ApplyApiOption(*ApiOptions)
}

type apiOptionFunc func(*ApiOptions)

func (f apiOptionFunc) ApplyApiOption(ao *ApiOptions) {
	f(ao)
}

// NotFound configures the handler for requests which match no route.
func NotFound(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.NotFound(h.ServeHTTP)
	})
}

// MethodNotAllowed configures the handler for requests to a known route
// with an unsupported method.
func MethodNotAllowed(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.MethodNotAllowed(h.ServeHTTP)
	})
}

// Api is an OpenAPI-compliant [http.Handler] serving a set of endpoints.
type Api struct {
	router *chi.Mux
	def    *openapi3.Spec
}

// NewApi creates a new [Api] with the specified title and version.
//
// The title and version are included in the OpenAPI document served at
// /openapi.json.
func NewApi(title, version string, opts ...ApiOption) *Api {
	ao := &ApiOptions{
		mux: chi.NewMux(),
		def: &openapi3.Spec{
			Openapi: "3.0.3",
			Info: openapi3.Info{
				Title:   title,
				Version: version,
			},
		},
		log:       instant.Logger("github.com/z5labs/instant/rest"),
		readiness: Always,
		liveness:  Always,
	}
	for _, opt := range opts {
		opt.ApplyApiOption(ao)
	}

	ao.mux.Method(http.MethodGet, "/health/readiness", healthHandler(ao.readiness, ao.log))
	ao.mux.Method(http.MethodGet, "/health/liveness", healthHandler(ao.liveness, ao.log))

	ao.mux.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		enc := json.NewEncoder(w)
		err := enc.Encode(ao.def)
		if err == nil {
			return
		}
		ao.log.ErrorContext(
			r.Context(),
			"failed to encode openapi schema to json",
			slog.Any("error", err),
		)
	})

	return &Api{
		router: ao.mux,
		def:    ao.def,
	}
}

// OpenApi returns the OpenAPI document describing every registered endpoint.
func (api *Api) OpenApi() *openapi3.Spec {
	return api.def
}

// ServeHTTP implements the [http.Handler] interface.
func (api *Api) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	api.router.ServeHTTP(w, req)
}
