// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// HttpResponseWriter is implemented by errors which know how to write
// their own HTTP response, e.g. [*TransactionRejectedError].
type HttpResponseWriter interface {
	WriteHttpResponse(context.Context, http.ResponseWriter)
}

// ErrorHandler handles errors returned while serving a request.
type ErrorHandler interface {
	OnError(context.Context, http.ResponseWriter, error)
}

// ErrorHandlerFunc is a function adapter that implements [ErrorHandler].
type ErrorHandlerFunc func(context.Context, http.ResponseWriter, error)

// OnError implements the [ErrorHandler] interface.
func (f ErrorHandlerFunc) OnError(ctx context.Context, w http.ResponseWriter, err error) {
	f(ctx, w, err)
}

func defaultErrorHandler(h slog.Handler) ErrorHandlerFunc {
	log := slog.New(h)

	return func(ctx context.Context, w http.ResponseWriter, err error) {
		if errors.Is(err, ErrTransactionRejected) {
			log.InfoContext(ctx, "transaction requirements weren't met", slog.Any("error", err))
		} else {
			log.ErrorContext(ctx, "sending error response", slog.Any("error", err))
		}

		var hrw HttpResponseWriter
		if errors.As(err, &hrw) {
			hrw.WriteHttpResponse(ctx, w)
			return
		}

		w.WriteHeader(http.StatusInternalServerError)
	}
}
