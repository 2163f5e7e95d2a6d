// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package endpoint derives a matched server handler and client caller
// from a single [Spec].
//
// # Requirements
//
// A [Spec] declares up to three requirement groups: headers, search params
// and body. Each group maps field names to a [schema.Validator]. Which
// groups may be declared depends on the endpoint [Kind]:
//
//   - [KindGet]: headers, search params
//   - [KindPost]: headers, search params, body
//   - [KindGetRedirect]: search params
//
// # Server
//
// The [Operation] extracts every declared group from the request. If any
// field of any group is missing, undecodable or invalid the request is
// rejected with:
//
//	{"status":false,"message":"Transaction requirements weren't met"}
//
// Otherwise the [Handler] is invoked with the validated [Args].
//
// # Client
//
// The [Client] serializes [Args] into the same wire shape the [Operation]
// extracts: headers are JSON encoded, the body is a JSON object and search
// params are joined into a query string. A [Redirector] instead hands the
// final URL to a [Navigator].
package endpoint
