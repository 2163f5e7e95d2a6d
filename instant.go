// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package instant builds matched HTTP server handlers and client callers
// from a single declarative endpoint description.
//
// The description names the headers, search params and body fields an
// endpoint requires. From it the endpoint package derives an [http.Handler]
// which validates incoming requests before invoking business logic, and a
// caller which serializes arguments into the exact same wire shape.
//
// See the endpoint, schema and rest subpackages for details.
package instant

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger returns a [slog.Logger] whose records are emitted through the
// globally registered OpenTelemetry logger provider.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// LogHandler returns the [slog.Handler] backing [Logger].
func LogHandler(name string) slog.Handler {
	return otelslog.NewHandler(name)
}
