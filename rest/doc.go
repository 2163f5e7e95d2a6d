// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package rest serves endpoints built by the endpoint package behind a
// single [http.Handler] and describes them with an OpenAPI 3.0 document.
//
// # Quick Start
//
//	op, _, err := endpoint.Get("/pancakes", reqs, handler)
//	if err != nil {
//	    return err
//	}
//	api := rest.NewApi("Pancakes", "v1.0.0", rest.Register(op))
//	http.ListenAndServe(":8080", api)
//
// Every [Api] also provides:
//   - OpenAPI schema at GET /openapi.json
//   - Health endpoints at GET /health/liveness and GET /health/readiness
//
// # OpenAPI
//
// The document is derived from the same [endpoint.Spec] which drives
// validation. Header and search param fields become required parameters,
// body fields become a required JSON object and the response schema is
// reflected from the endpoint response type.
package rest
