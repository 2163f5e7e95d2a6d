// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"
	"errors"
	"io"
)

// Hook runs once the [Runtime] built by [WithHooks] has returned.
type Hook func(context.Context) error

// Hooks collects the [Hook]s registered while building a [Runtime].
type Hooks struct {
	hooks []Hook
}

// OnPostRun registers h.
//
// Hooks run in reverse registration order, the same as deferred calls,
// so a resource is released before anything it was built from.
func (hs *Hooks) OnPostRun(h Hook) {
	hs.hooks = append(hs.hooks, h)
}

// Close registers c to be closed after the [Runtime] returns.
func (hs *Hooks) Close(c io.Closer) {
	hs.OnPostRun(func(context.Context) error {
		return c.Close()
	})
}

type hookRuntime struct {
	inner Runtime
	hooks []Hook
}

// Run implements the [Runtime] interface.
//
// Every hook runs, even when the inner runtime or an earlier hook fails.
// All errors are joined.
func (rt hookRuntime) Run(ctx context.Context) error {
	errs := []error{rt.inner.Run(ctx)}
	for i := len(rt.hooks) - 1; i >= 0; i-- {
		errs = append(errs, rt.hooks[i](context.WithoutCancel(ctx)))
	}
	return errors.Join(errs...)
}

// WithHooks lets f register cleanup [Hook]s next to the resources it opens.
//
// If f fails, the hooks registered so far run immediately.
//
//	app.WithHooks(func(ctx context.Context, h *app.Hooks) (app.Runtime, error) {
//		f, err := os.Open("menu.yaml")
//		if err != nil {
//			return nil, err
//		}
//		h.Close(f)
//		return newServer(f), nil
//	})
func WithHooks[T Runtime](f func(context.Context, *Hooks) (T, error)) Builder[Runtime] {
	return BuilderFunc[Runtime](func(ctx context.Context) (Runtime, error) {
		hs := &Hooks{}

		inner, err := f(ctx, hs)
		if err != nil {
			rt := hookRuntime{
				inner: RuntimeFunc(func(context.Context) error { return nil }),
				hooks: hs.hooks,
			}
			return nil, errors.Join(err, rt.Run(ctx))
		}

		return hookRuntime{
			inner: inner,
			hooks: hs.hooks,
		}, nil
	})
}
