// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package app composes the pieces of an instant service into a single
// runnable value.
//
// A service is described as a chain of [Builder]s, e.g. an HTTP server
// wrapped by the OpenTelemetry runtime, and started with [Run]. Resources
// opened while building can be released after the service stops through
// [WithHooks].
package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Builder constructs a T, typically a [Runtime].
type Builder[T any] interface {
	Build(context.Context) (T, error)
}

// BuilderFunc is a function which implements the [Builder] interface.
type BuilderFunc[T any] func(context.Context) (T, error)

// Build implements the [Builder] interface.
func (f BuilderFunc[T]) Build(ctx context.Context) (T, error) {
	return f(ctx)
}

// Bind builds an A and hands it to f to choose the next [Builder].
func Bind[A, B any](b Builder[A], f func(A) Builder[B]) Builder[B] {
	return BuilderFunc[B](func(ctx context.Context) (B, error) {
		a, err := b.Build(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a).Build(ctx)
	})
}

// Map converts the output of b with f.
func Map[A, B any](b Builder[A], f func(A) B) Builder[B] {
	return Bind(b, func(a A) Builder[B] {
		return BuilderFunc[B](func(context.Context) (B, error) {
			return f(a), nil
		})
	})
}

// Runtime is a long running part of a service.
type Runtime interface {
	Run(context.Context) error
}

// RuntimeFunc is a function which implements the [Runtime] interface.
type RuntimeFunc func(context.Context) error

// Run implements the [Runtime] interface.
func (f RuntimeFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// BuildError is returned by [Run] when the [Runtime] could not be built.
type BuildError struct {
	Cause error
}

// Error implements the [error] interface.
func (e BuildError) Error() string {
	return "failed to build runtime: " + e.Cause.Error()
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e BuildError) Unwrap() error {
	return e.Cause
}

// Run builds the [Runtime] and runs it until it returns or the process
// receives SIGINT or SIGTERM, in which case the context passed to the
// runtime is cancelled.
func Run[T Runtime](ctx context.Context, b Builder[T]) error {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := b.Build(sigCtx)
	if err != nil {
		return BuildError{Cause: err}
	}
	return rt.Run(sigCtx)
}

// LogError reports err through h. A nil err is ignored.
func LogError(h slog.Handler, err error) {
	if err == nil {
		return
	}

	log := slog.New(h)
	log.ErrorContext(context.Background(), "service stopped unexpectedly", slog.Any("error", err))
}
