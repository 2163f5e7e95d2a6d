// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"log/slog"
	"net/http"
)

// Options holds the configuration shared by the [Operation] and the
// caller built by [New].
type Options struct {
	errHandler      ErrorHandler
	logHandler      slog.Handler
	maxBodyBytes    int64
	rejectionStatus int
	httpClient      *http.Client
	baseUrl         string
}

// Option configures an endpoint built by [New].
type Option func(*Options)

// OnError configures a custom [ErrorHandler] for the [Operation].
// If not specified, a default error handler is used which logs the error
// and lets errors implementing [HttpResponseWriter] render themselves.
func OnError(eh ErrorHandler) Option {
	return func(o *Options) {
		o.errHandler = eh
	}
}

// LogHandler sets the [slog.Handler] used by the [Operation] and the
// default [ErrorHandler].
func LogHandler(h slog.Handler) Option {
	return func(o *Options) {
		o.logHandler = h
	}
}

// MaxBodyBytes limits how many bytes of the request body are read.
// Defaults to [DefaultMaxBodyBytes].
func MaxBodyBytes(n int64) Option {
	return func(o *Options) {
		o.maxBodyBytes = n
	}
}

// RejectionStatus sets the status code sent along with the [Rejection]
// body. Defaults to 200 OK.
func RejectionStatus(code int) Option {
	return func(o *Options) {
		o.rejectionStatus = code
	}
}

// HTTPClient sets the client used by [Client.Call]. Its transport is
// wrapped with OpenTelemetry instrumentation.
func HTTPClient(hc *http.Client) Option {
	return func(o *Options) {
		o.httpClient = hc
	}
}

// BaseURL is prepended to the endpoint URL by callers. It is needed
// whenever the endpoint URL is only a path.
func BaseURL(u string) Option {
	return func(o *Options) {
		o.baseUrl = u
	}
}
