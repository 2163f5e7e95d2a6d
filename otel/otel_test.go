// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/z5labs/instant/app"
	"github.com/z5labs/instant/config"

	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

type mockRuntime struct {
	runCalled bool
	runErr    error
}

func (m *mockRuntime) Run(ctx context.Context) error {
	m.runCalled = true
	return m.runErr
}

func TestProtocolFromString(t *testing.T) {
	t.Run("will accept", func(t *testing.T) {
		testCases := []struct {
			in       string
			protocol Protocol
		}{
			{in: "grpc", protocol: ProtocolGRPC},
			{in: "http/protobuf", protocol: ProtocolHTTP},
		}

		for _, tc := range testCases {
			t.Run(tc.in, func(t *testing.T) {
				p, err := config.Read(t.Context(), ProtocolFromString(config.ReaderOf(tc.in)))
				require.NoError(t, err)
				require.Equal(t, tc.protocol, p)
			})
		}
	})

	t.Run("will return an UnknownProtocolError", func(t *testing.T) {
		t.Run("if the protocol is not supported", func(t *testing.T) {
			_, err := config.Read(t.Context(), ProtocolFromString(config.ReaderOf("http/json")))

			var upe UnknownProtocolError
			require.ErrorAs(t, err, &upe)
			require.Equal(t, "http/json", upe.Protocol)
		})
	})
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("will read the standard environment variables", func(t *testing.T) {
		t.Setenv("OTEL_SERVICE_NAME", "pancakes")
		t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "http/protobuf")
		t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")
		t.Setenv("OTEL_GO_RUNTIME_METRICS", "true")

		cfg := ConfigFromEnv()
		ctx := t.Context()
		require.Equal(t, "pancakes", config.Must(ctx, cfg.ServiceName))
		require.Equal(t, ProtocolHTTP, config.Must(ctx, cfg.Protocol))
		require.Equal(t, 0.25, config.Must(ctx, cfg.SampleRatio))
		require.True(t, config.Must(ctx, cfg.RuntimeMetrics))
	})

	t.Run("will apply overrides after the environment", func(t *testing.T) {
		t.Setenv("OTEL_SERVICE_NAME", "pancakes")

		cfg := ConfigFromEnv(func(c *Config) {
			c.ServiceName = config.ReaderOf("waffles")
		})
		require.Equal(t, "waffles", config.Must(t.Context(), cfg.ServiceName))
	})
}

func TestConfig_Read(t *testing.T) {
	t.Run("will return noop providers", func(t *testing.T) {
		t.Run("if no endpoint is configured", func(t *testing.T) {
			providers, err := config.Read(t.Context(), Config{})
			require.NoError(t, err)
			require.Equal(t, NoopProviders(), providers)
			require.NoError(t, providers.Close())
		})
	})

	t.Run("will build sdk providers", func(t *testing.T) {
		testCases := []struct {
			name     string
			protocol Protocol
			endpoint string
		}{
			{name: "over grpc", protocol: ProtocolGRPC, endpoint: "localhost:4317"},
			{name: "over grpc with a scheme", protocol: ProtocolGRPC, endpoint: "http://localhost:4317"},
			{name: "over http", protocol: ProtocolHTTP, endpoint: "localhost:4318"},
			{name: "over http with a scheme", protocol: ProtocolHTTP, endpoint: "http://localhost:4318"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				cfg := Config{
					Endpoint: config.ReaderOf(tc.endpoint),
					Protocol: config.ReaderOf(tc.protocol),
				}

				providers, err := config.Read(t.Context(), cfg)
				require.NoError(t, err)
				require.NotNil(t, providers.Tracer)
				require.NotNil(t, providers.Meter)
				require.NotNil(t, providers.Logger)
				require.NotEmpty(t, providers.closers)

				// nothing is listening so flushing may fail
				_ = providers.Close()
			})
		}
	})

	t.Run("will return an UnknownProtocolError", func(t *testing.T) {
		t.Run("if the protocol is not supported", func(t *testing.T) {
			_, err := newExporters(t.Context(), Protocol("carrier-pigeon"), "localhost:4317")

			var upe UnknownProtocolError
			require.ErrorAs(t, err, &upe)
		})
	})
}

func TestGrpcTarget(t *testing.T) {
	require.Equal(t, "localhost:4317", grpcTarget("http://localhost:4317"))
	require.Equal(t, "localhost:4317", grpcTarget("https://localhost:4317"))
	require.Equal(t, "localhost:4317", grpcTarget("localhost:4317"))
}

func TestProviders_Close(t *testing.T) {
	t.Run("will close every closer", func(t *testing.T) {
		t.Run("even if one of them fails", func(t *testing.T) {
			closeErr := errors.New("failed to close")
			var closed []int
			providers := Providers{
				closers: []io.Closer{
					closerFunc(func() error {
						closed = append(closed, 1)
						return closeErr
					}),
					closerFunc(func() error {
						closed = append(closed, 2)
						return nil
					}),
				},
			}

			err := providers.Close()
			require.ErrorIs(t, err, closeErr)
			require.Equal(t, []int{1, 2}, closed)
		})
	})
}

func TestBuild(t *testing.T) {
	t.Run("will run the inner runtime", func(t *testing.T) {
		rt := &mockRuntime{}
		builder := Build(Config{}, app.BuilderFunc[*mockRuntime](func(ctx context.Context) (*mockRuntime, error) {
			return rt, nil
		}))

		otelRt, err := builder.Build(t.Context())
		require.NoError(t, err)

		err = otelRt.Run(t.Context())
		require.NoError(t, err)
		require.True(t, rt.runCalled)
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the inner builder fails", func(t *testing.T) {
			buildErr := errors.New("failed to build")
			builder := Build(Config{}, app.BuilderFunc[*mockRuntime](func(ctx context.Context) (*mockRuntime, error) {
				return nil, buildErr
			}))

			_, err := builder.Build(t.Context())
			require.ErrorIs(t, err, buildErr)
		})

		t.Run("if the config can not be read", func(t *testing.T) {
			cfg := Config{
				Endpoint: config.ReaderOf("localhost:4317"),
				Protocol: config.ReaderOf(Protocol("carrier-pigeon")),
			}
			builder := Build(cfg, app.BuilderFunc[*mockRuntime](func(ctx context.Context) (*mockRuntime, error) {
				return &mockRuntime{}, nil
			}))

			_, err := builder.Build(t.Context())

			var upe UnknownProtocolError
			require.ErrorAs(t, err, &upe)
		})

		t.Run("if the inner runtime fails", func(t *testing.T) {
			runErr := errors.New("failed to run")
			rt := &mockRuntime{runErr: runErr}
			builder := Build(Config{}, app.BuilderFunc[*mockRuntime](func(ctx context.Context) (*mockRuntime, error) {
				return rt, nil
			}))

			otelRt, err := builder.Build(t.Context())
			require.NoError(t, err)

			err = otelRt.Run(t.Context())
			require.ErrorIs(t, err, runErr)
		})

		t.Run("if the providers fail to shutdown", func(t *testing.T) {
			closeErr := errors.New("failed to close")
			otelRt := Runtime{
				inner: &mockRuntime{},
				providers: Providers{
					closers: []io.Closer{closerFunc(func() error {
						return closeErr
					})},
				},
			}

			err := otelRt.Run(t.Context())
			require.ErrorIs(t, err, closeErr)
		})
	})
}
