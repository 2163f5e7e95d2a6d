// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Checker reports whether the application is healthy. A nil error means healthy.
type Checker interface {
	Check(context.Context) error
}

// CheckerFunc is a function adapter that implements [Checker].
type CheckerFunc func(context.Context) error

// Check implements the [Checker] interface.
func (f CheckerFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// Always is a [Checker] which is always healthy.
var Always Checker = CheckerFunc(func(context.Context) error { return nil })

// ErrNotReady is reported by a [Flag] which has not been raised.
var ErrNotReady = errors.New("not ready")

// Flag is a [Checker] with two states. The zero value is unhealthy.
// It is safe for concurrent use.
type Flag struct {
	up atomic.Bool
}

// Raise marks the flag healthy.
func (f *Flag) Raise() {
	f.up.Store(true)
}

// Lower marks the flag unhealthy.
func (f *Flag) Lower() {
	f.up.Store(false)
}

// Check implements the [Checker] interface.
func (f *Flag) Check(ctx context.Context) error {
	if f.up.Load() {
		return nil
	}
	return ErrNotReady
}

// AllOf is healthy only if every [Checker] is. It fails fast on the first error.
func AllOf(ps ...Checker) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		for _, p := range ps {
			err := p.Check(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Readiness configures the check served at GET /health/readiness.
// Readiness indicates whether the application is ready to serve traffic.
func Readiness(p Checker) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.readiness = p
	})
}

// Liveness configures the check served at GET /health/liveness.
// Liveness indicates whether the application should be restarted.
func Liveness(p Checker) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.liveness = p
	})
}

func healthHandler(p Checker, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := p.Check(r.Context())
		if err == nil {
			w.WriteHeader(http.StatusOK)
			return
		}

		log.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}
