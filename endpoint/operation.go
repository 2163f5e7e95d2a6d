// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/swaggest/jsonschema-go"
	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/z5labs/instant/endpoint"

// Handler implements the business logic of an endpoint.
//
// It is only invoked once every declared requirement group has been
// validated. The returned value is written as JSON unless it implements
// [Response], in which case it is passed through.
type Handler[Resp any] interface {
	Handle(ctx context.Context, r *http.Request, args Args) (*Resp, error)
}

// HandlerFunc is an adapter to allow the use of ordinary functions
// as [Handler]s.
type HandlerFunc[Resp any] func(context.Context, *http.Request, Args) (*Resp, error)

// Handle implements the [Handler] interface.
func (f HandlerFunc[Resp]) Handle(ctx context.Context, r *http.Request, args Args) (*Resp, error) {
	return f(ctx, r, args)
}

// Operation is the server half of an endpoint. It implements [http.Handler].
type Operation[Resp any] struct {
	spec            Spec
	handler         Handler[Resp]
	tracer          trace.Tracer
	log             *slog.Logger
	errHandler      ErrorHandler
	requests        metric.Int64Counter
	maxBodyBytes    int64
	rejectionStatus int
}

func newOperation[Resp any](spec Spec, h Handler[Resp], o *Options) *Operation[Resp] {
	meter := otel.Meter(instrumentationName)
	requests, err := meter.Int64Counter(
		"instant.endpoint.requests",
		metric.WithDescription("Number of requests handled, partitioned by outcome."),
	)
	if err != nil {
		requests = noop.Int64Counter{}
	}

	return &Operation[Resp]{
		spec:            spec,
		handler:         h,
		tracer:          otel.Tracer(instrumentationName),
		log:             slog.New(o.logHandler),
		errHandler:      o.errHandler,
		requests:        requests,
		maxBodyBytes:    o.maxBodyBytes,
		rejectionStatus: o.rejectionStatus,
	}
}

// Spec returns the spec the operation was built from.
func (o *Operation[Resp]) Spec() Spec {
	return o.spec
}

// ResponseSchema describes the JSON written for successful requests.
// It reports false if Resp writes its own response.
func (o *Operation[Resp]) ResponseSchema() (jsonschema.Schema, bool, error) {
	var resp Resp
	if _, ok := asResponse(&resp); ok {
		return jsonschema.Schema{}, false, nil
	}

	var reflector jsonschema.Reflector
	js, err := reflector.Reflect(resp, jsonschema.InlineRefs)
	if err != nil {
		return jsonschema.Schema{}, false, err
	}
	return js, true, nil
}

// ServeHTTP implements the [http.Handler] interface.
func (o *Operation[Resp]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	txId := uuid.NewString()
	log := o.log.With(slog.String("transaction_id", txId))
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("instant.transaction_id", txId))

	cw := &committedWriter{ResponseWriter: w}
	w = cw

	var err error
	defer func() {
		o.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint.kind", o.spec.Kind.String()),
			attribute.String("outcome", outcomeOf(err)),
		))
		if err == nil {
			return
		}
		if cw.committed {
			log.ErrorContext(ctx, "failed after the response was committed", slog.Any("error", err))
			return
		}

		o.errHandler.OnError(ctx, w, err)
	}()
	defer recoverPanic(&err)

	outcome := o.extract(ctx, r)
	log.DebugContext(ctx, "extracted transaction requirements", slog.Any("args", outcome))

	err = outcome.Err()
	if err != nil {
		var rej *TransactionRejectedError
		if errors.As(err, &rej) {
			rej.StatusCode = o.rejectionStatus
		}
		return
	}

	resp, err := o.handle(ctx, r, outcome.Args)
	if err != nil {
		return
	}

	err = o.writeResponse(ctx, w, resp)
}

// recoverPanic is like [try.Recover] but always records an error value,
// so the resulting [try.PanicError] can be safely unwrapped.
func recoverPanic(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(error); !ok {
		r = fmt.Errorf("%v", r)
	}

	perr := try.PanicError{Value: r}
	if *err == nil {
		*err = perr
		return
	}
	*err = errors.Join(*err, perr)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, ErrTransactionRejected):
		return "rejected"
	default:
		return "failed"
	}
}

func (o *Operation[Resp]) extract(ctx context.Context, r *http.Request) Outcome {
	spanCtx, span := o.tracer.Start(ctx, "Operation.extract")
	defer span.End()

	outcome := Aggregate(spanCtx, r, o.spec.Requirements, o.maxBodyBytes)
	span.SetAttributes(attribute.Bool("instant.transaction_broken", outcome.Broken()))
	return outcome
}

func (o *Operation[Resp]) handle(ctx context.Context, r *http.Request, args Args) (*Resp, error) {
	spanCtx, span := o.tracer.Start(ctx, "Operation.handle")
	defer span.End()

	resp, err := o.handler.Handle(spanCtx, r.WithContext(spanCtx), args)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return resp, nil
}

func (o *Operation[Resp]) writeResponse(ctx context.Context, w http.ResponseWriter, resp *Resp) error {
	spanCtx, span := o.tracer.Start(ctx, "Operation.writeResponse")
	defer span.End()

	if r, ok := asResponse(resp); ok {
		return r.WriteResponse(spanCtx, w)
	}
	return writeJson(w, http.StatusOK, resp)
}

// committedWriter records whether the status line has been sent.
type committedWriter struct {
	http.ResponseWriter

	committed bool
}

func (w *committedWriter) WriteHeader(code int) {
	w.committed = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *committedWriter) Write(b []byte) (int, error) {
	w.committed = true
	return w.ResponseWriter.Write(b)
}

func (w *committedWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
