// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type exporters struct {
	span   sdktrace.SpanExporter
	metric sdkmetric.Exporter
	log    sdklog.Exporter

	// only set for grpc, shared by every exporter
	conn *grpc.ClientConn
}

func newExporters(ctx context.Context, protocol Protocol, endpoint string) (exporters, error) {
	switch protocol {
	case ProtocolGRPC:
		return grpcExporters(ctx, endpoint)
	case ProtocolHTTP:
		return httpExporters(ctx, endpoint)
	default:
		return exporters{}, UnknownProtocolError{Protocol: string(protocol)}
	}
}

func grpcTarget(endpoint string) string {
	for _, scheme := range []string{"http://", "https://"} {
		if s, ok := strings.CutPrefix(endpoint, scheme); ok {
			return s
		}
	}
	return endpoint
}

func grpcExporters(ctx context.Context, endpoint string) (exporters, error) {
	conn, err := grpc.NewClient(
		grpcTarget(endpoint),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return exporters{}, err
	}

	exps := exporters{conn: conn}
	exps.span, err = otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		conn.Close()
		return exporters{}, err
	}
	exps.metric, err = otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		conn.Close()
		return exporters{}, err
	}
	exps.log, err = otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(conn))
	if err != nil {
		conn.Close()
		return exporters{}, err
	}
	return exps, nil
}

func httpExporters(ctx context.Context, endpoint string) (exporters, error) {
	var exps exporters
	var err error
	if strings.Contains(endpoint, "://") {
		exps.span, err = otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	} else {
		exps.span, err = otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint))
	}
	if err != nil {
		return exporters{}, err
	}

	if strings.Contains(endpoint, "://") {
		exps.metric, err = otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(endpoint))
	} else {
		exps.metric, err = otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(endpoint))
	}
	if err != nil {
		return exporters{}, err
	}

	if strings.Contains(endpoint, "://") {
		exps.log, err = otlploghttp.New(ctx, otlploghttp.WithEndpointURL(endpoint))
	} else {
		exps.log, err = otlploghttp.New(ctx, otlploghttp.WithEndpoint(endpoint))
	}
	if err != nil {
		return exporters{}, err
	}
	return exps, nil
}
