// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"

	"github.com/z5labs/instant/app"
	"github.com/z5labs/instant/config"

	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
)

// Runtime registers the configured providers globally, runs the inner
// runtime and flushes telemetry once it returns.
//
// Do not create Runtime directly; use [Build] to construct it.
type Runtime struct {
	inner     app.Runtime
	providers Providers
}

// Build wraps builder so the OpenTelemetry globals are in place before
// builder runs. Endpoints, loggers and HTTP transports created by builder
// therefore pick up the configured providers.
func Build[T app.Runtime](cfg Config, builder app.Builder[T]) app.Builder[Runtime] {
	return app.BuilderFunc[Runtime](func(ctx context.Context) (Runtime, error) {
		providers, err := config.Read(ctx, cfg)
		if err != nil {
			return Runtime{}, err
		}

		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.Baggage{},
			propagation.TraceContext{},
		))
		otel.SetTracerProvider(providers.Tracer)
		otel.SetMeterProvider(providers.Meter)
		global.SetLoggerProvider(providers.Logger)

		if config.MustOr(ctx, false, cfg.RuntimeMetrics) {
			err = runtime.Start(runtime.WithMeterProvider(providers.Meter))
			if err != nil {
				providers.Close()
				return Runtime{}, err
			}
		}

		inner, err := builder.Build(ctx)
		if err != nil {
			providers.Close()
			return Runtime{}, err
		}

		return Runtime{
			inner:     inner,
			providers: providers,
		}, nil
	})
}

// Run implements the [app.Runtime] interface.
//
// Providers are shut down even when the inner runtime fails. Shutdown
// errors are joined with the runtime error.
func (rt Runtime) Run(ctx context.Context) (err error) {
	defer try.Close(&err, rt.providers)

	return rt.inner.Run(ctx)
}
