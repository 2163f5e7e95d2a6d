// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
)

// Response is implemented by values which know how to write themselves
// as an HTTP response. A handler result implementing Response is passed
// through unchanged instead of being encoded as JSON.
type Response interface {
	WriteResponse(context.Context, http.ResponseWriter) error
}

func asResponse[T any](resp *T) (Response, bool) {
	if resp == nil {
		return nil, false
	}
	if r, ok := any(resp).(Response); ok {
		return r, true
	}
	r, ok := any(*resp).(Response)
	return r, ok
}

func writeJson(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	return enc.Encode(v)
}

// RedirectResponse redirects the client to another URL.
type RedirectResponse struct {
	URL  string
	Code int
}

// Redirect returns a [Response] which redirects to url with the given
// 3xx status code. A zero code defaults to 302 Found.
func Redirect(url string, code int) *RedirectResponse {
	return &RedirectResponse{URL: url, Code: code}
}

// WriteResponse implements the [Response] interface.
func (rr *RedirectResponse) WriteResponse(ctx context.Context, w http.ResponseWriter) error {
	code := rr.Code
	if code == 0 {
		code = http.StatusFound
	}
	w.Header().Set("Location", rr.URL)
	w.WriteHeader(code)
	return nil
}

// StatusResponse encodes a value as JSON with a custom status code.
type StatusResponse struct {
	Code  int
	Value any
}

// Status returns a [Response] which writes v as JSON with status code.
func Status(code int, v any) *StatusResponse {
	return &StatusResponse{Code: code, Value: v}
}

// WriteResponse implements the [Response] interface.
func (sr *StatusResponse) WriteResponse(ctx context.Context, w http.ResponseWriter) error {
	return writeJson(w, sr.Code, sr.Value)
}

// NoContentResponse writes an empty 204 response.
type NoContentResponse struct{}

// NoContent returns a [Response] with status 204 and no body.
func NoContent() *NoContentResponse {
	return &NoContentResponse{}
}

// WriteResponse implements the [Response] interface.
func (*NoContentResponse) WriteResponse(ctx context.Context, w http.ResponseWriter) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}
