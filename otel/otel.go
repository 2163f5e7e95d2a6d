// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otel configures the OpenTelemetry SDK for an instant application.
//
// Telemetry is only exported when an OTLP endpoint is configured. Without
// one every provider is a no-op, so endpoints, loggers and the HTTP client
// transport can be instrumented unconditionally.
//
// Environment Variables:
//   - OTEL_SERVICE_NAME: service name resource attribute
//   - OTEL_SERVICE_VERSION: service version resource attribute
//   - OTEL_EXPORTER_OTLP_ENDPOINT: collector endpoint, e.g. localhost:4317
//   - OTEL_EXPORTER_OTLP_PROTOCOL: grpc (default) or http/protobuf
//   - OTEL_TRACES_SAMPLER_ARG: trace sampling ratio between 0.0 and 1.0
//   - OTEL_METRIC_EXPORT_INTERVAL: metric export interval, e.g. 10s
//   - OTEL_GO_RUNTIME_METRICS: whether to record Go runtime metrics
//   - OTEL_LOG_LEVELS: minimum level per logger, e.g. pancakes=warn
package otel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/z5labs/instant/config"

	"go.opentelemetry.io/otel/log"
	lognoop "go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.38.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Protocol is the OTLP transport used to export telemetry.
type Protocol string

const (
	ProtocolGRPC Protocol = "grpc"
	ProtocolHTTP Protocol = "http/protobuf"
)

// UnknownProtocolError is returned for a protocol other than [ProtocolGRPC]
// or [ProtocolHTTP].
type UnknownProtocolError struct {
	Protocol string
}

// Error implements the [error] interface.
func (e UnknownProtocolError) Error() string {
	return fmt.Sprintf("unknown otlp protocol: %s", e.Protocol)
}

// ProtocolFromString validates the string produced by r as a [Protocol].
func ProtocolFromString(r config.Reader[string]) config.Reader[Protocol] {
	return config.Map(r, func(_ context.Context, s string) (Protocol, error) {
		switch p := Protocol(s); p {
		case ProtocolGRPC, ProtocolHTTP:
			return p, nil
		default:
			return "", UnknownProtocolError{Protocol: s}
		}
	})
}

// Config describes how telemetry is collected and exported.
type Config struct {
	ServiceName    config.Reader[string]
	ServiceVersion config.Reader[string]
	Endpoint       config.Reader[string]
	Protocol       config.Reader[Protocol]
	SampleRatio    config.Reader[float64]
	ExportInterval config.Reader[time.Duration]
	RuntimeMetrics config.Reader[bool]
	LogLevels      config.Reader[map[string]log.Severity]
}

// ConfigFromEnv reads every setting from the standard OpenTelemetry
// environment variables. Overrides are applied afterwards.
func ConfigFromEnv(overrides ...func(*Config)) Config {
	cfg := Config{
		ServiceName:    config.Env("OTEL_SERVICE_NAME"),
		ServiceVersion: config.Env("OTEL_SERVICE_VERSION"),
		Endpoint:       config.Env("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Protocol:       ProtocolFromString(config.Env("OTEL_EXPORTER_OTLP_PROTOCOL")),
		SampleRatio:    config.Float64FromString(config.Env("OTEL_TRACES_SAMPLER_ARG")),
		ExportInterval: config.DurationFromString(config.Env("OTEL_METRIC_EXPORT_INTERVAL")),
		RuntimeMetrics: config.BoolFromString(config.Env("OTEL_GO_RUNTIME_METRICS")),
		LogLevels:      LogLevelsFromString(config.Env("OTEL_LOG_LEVELS")),
	}
	for _, o := range overrides {
		o(&cfg)
	}
	return cfg
}

// Providers holds the configured OpenTelemetry providers.
type Providers struct {
	Tracer trace.TracerProvider
	Meter  metric.MeterProvider
	Logger log.LoggerProvider

	closers []io.Closer
}

// NoopProviders returns [Providers] which record nothing.
func NoopProviders() Providers {
	return Providers{
		Tracer: tracenoop.NewTracerProvider(),
		Meter:  metricnoop.NewMeterProvider(),
		Logger: lognoop.NewLoggerProvider(),
	}
}

// Read implements the [config.Reader] interface.
//
// Defaults:
//   - Protocol: grpc
//   - SampleRatio: 1.0
//   - ExportInterval: 10 seconds
func (cfg Config) Read(ctx context.Context) (config.Value[Providers], error) {
	endpoint := config.MustOr(ctx, "", cfg.Endpoint)
	if endpoint == "" {
		return config.ValueOf(NoopProviders()), nil
	}

	levels, err := config.Read(ctx, config.Default(map[string]log.Severity{}, cfg.LogLevels))
	if err != nil {
		return config.Value[Providers]{}, err
	}

	rsc, err := cfg.resource(ctx)
	if err != nil {
		return config.Value[Providers]{}, err
	}

	exps, err := newExporters(ctx, config.MustOr(ctx, ProtocolGRPC, cfg.Protocol), endpoint)
	if err != nil {
		return config.Value[Providers]{}, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(rsc),
		sdktrace.WithSampler(sdktrace.ParentBased(
			sdktrace.TraceIDRatioBased(config.MustOr(ctx, 1.0, cfg.SampleRatio)),
		)),
		sdktrace.WithBatcher(exps.span),
	)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(rsc),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exps.metric,
			sdkmetric.WithInterval(config.MustOr(ctx, 10*time.Second, cfg.ExportInterval)),
		)),
	)

	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(rsc),
		sdklog.WithProcessor(filterLevels(sdklog.NewBatchProcessor(exps.log), levels)),
	)

	closers := []io.Closer{
		shutdownCloser{tp},
		shutdownCloser{mp},
		shutdownCloser{lp},
	}
	if exps.conn != nil {
		closers = append(closers, exps.conn)
	}

	return config.ValueOf(Providers{
		Tracer:  tp,
		Meter:   mp,
		Logger:  lp,
		closers: closers,
	}), nil
}

func (cfg Config) resource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(
		ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(config.MustOr(ctx, "instant", cfg.ServiceName)),
			semconv.ServiceVersion(config.MustOr(ctx, "", cfg.ServiceVersion)),
		),
	)
}

// Close shuts down every provider, flushing any buffered telemetry.
func (p Providers) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

type shutdowner interface {
	Shutdown(context.Context) error
}

type shutdownCloser struct {
	shutdowner
}

func (c shutdownCloser) Close() error {
	return c.Shutdown(context.Background())
}
