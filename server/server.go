// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package server runs an [http.Handler], usually a rest.Api, as an
// [app.Runtime].
//
// Every setting is a [config.Reader] so it can come from the environment,
// a file or a literal. Unset settings fall back to the defaults documented
// on [NewServer].
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/z5labs/instant"
	"github.com/z5labs/instant/app"
	"github.com/z5labs/instant/config"

	"golang.org/x/sync/errgroup"
)

// TCPListener opens a TCP listener on Addr, ":8080" by default.
type TCPListener struct {
	Addr config.Reader[string]
}

// AddrFromEnv reads the listen address from HTTP_ADDR.
func AddrFromEnv() config.Reader[string] {
	return config.Env("HTTP_ADDR")
}

// Read implements the [config.Reader] interface.
func (tcpLn TCPListener) Read(ctx context.Context) (config.Value[net.Listener], error) {
	addr := config.MustOr(ctx, ":8080", tcpLn.Addr)

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return config.Value[net.Listener]{}, err
	}
	return config.ValueOf(ln), nil
}

// Server configures the underlying [http.Server].
type Server struct {
	Listener          config.Reader[net.Listener]
	ReadTimeout       config.Reader[time.Duration]
	ReadHeaderTimeout config.Reader[time.Duration]
	WriteTimeout      config.Reader[time.Duration]
	IdleTimeout       config.Reader[time.Duration]
	MaxHeaderBytes    config.Reader[int]
	ShutdownTimeout   config.Reader[time.Duration]

	errorLog slog.Handler
}

// Option configures a [Server].
type Option func(*Server)

// ReadTimeout bounds reading an entire request, body included.
func ReadTimeout(d config.Reader[time.Duration]) Option {
	return func(s *Server) {
		s.ReadTimeout = d
	}
}

// ReadHeaderTimeout bounds reading the request headers.
func ReadHeaderTimeout(d config.Reader[time.Duration]) Option {
	return func(s *Server) {
		s.ReadHeaderTimeout = d
	}
}

// WriteTimeout bounds writing the response.
func WriteTimeout(d config.Reader[time.Duration]) Option {
	return func(s *Server) {
		s.WriteTimeout = d
	}
}

// IdleTimeout bounds how long a keep-alive connection waits for its next request.
func IdleTimeout(d config.Reader[time.Duration]) Option {
	return func(s *Server) {
		s.IdleTimeout = d
	}
}

// MaxHeaderBytes limits the size of the request line and headers.
func MaxHeaderBytes(n config.Reader[int]) Option {
	return func(s *Server) {
		s.MaxHeaderBytes = n
	}
}

// ShutdownTimeout bounds how long in-flight requests may take to finish
// once the server is asked to stop.
func ShutdownTimeout(d config.Reader[time.Duration]) Option {
	return func(s *Server) {
		s.ShutdownTimeout = d
	}
}

// ErrorLog sets where the [http.Server] reports connection level errors.
func ErrorLog(h slog.Handler) Option {
	return func(s *Server) {
		s.errorLog = h
	}
}

// FromEnv reads every timeout and limit from the environment:
//   - HTTP_READ_TIMEOUT
//   - HTTP_READ_HEADER_TIMEOUT
//   - HTTP_WRITE_TIMEOUT
//   - HTTP_IDLE_TIMEOUT
//   - HTTP_MAX_HEADER_BYTES
//   - HTTP_SHUTDOWN_TIMEOUT
func FromEnv() Option {
	return func(s *Server) {
		s.ReadTimeout = config.DurationFromString(config.Env("HTTP_READ_TIMEOUT"))
		s.ReadHeaderTimeout = config.DurationFromString(config.Env("HTTP_READ_HEADER_TIMEOUT"))
		s.WriteTimeout = config.DurationFromString(config.Env("HTTP_WRITE_TIMEOUT"))
		s.IdleTimeout = config.DurationFromString(config.Env("HTTP_IDLE_TIMEOUT"))
		s.MaxHeaderBytes = config.IntFromString(config.Env("HTTP_MAX_HEADER_BYTES"))
		s.ShutdownTimeout = config.DurationFromString(config.Env("HTTP_SHUTDOWN_TIMEOUT"))
	}
}

// NewServer returns a [Server] which serves on listener.
//
// Defaults:
//   - ReadTimeout: 5 seconds
//   - ReadHeaderTimeout: 2 seconds
//   - WriteTimeout: 10 seconds
//   - IdleTimeout: 120 seconds
//   - MaxHeaderBytes: 1 MiB
//   - ShutdownTimeout: 10 seconds
func NewServer(listener config.Reader[net.Listener], opts ...Option) Server {
	s := Server{
		Listener: listener,
		errorLog: instant.LogHandler("github.com/z5labs/instant/server"),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// App is a running [http.Server].
type App struct {
	ln              net.Listener
	srv             *http.Server
	shutdownTimeout time.Duration
}

// Build returns a [app.Builder] which serves the handler built by b.
func Build(s Server, b app.Builder[http.Handler]) app.Builder[App] {
	return app.Bind(b, func(h http.Handler) app.Builder[App] {
		return app.BuilderFunc[App](func(ctx context.Context) (App, error) {
			ln, err := config.Read(ctx, s.Listener)
			if err != nil {
				return App{}, err
			}

			srv := &http.Server{
				Handler:           h,
				ReadTimeout:       config.MustOr(ctx, 5*time.Second, s.ReadTimeout),
				ReadHeaderTimeout: config.MustOr(ctx, 2*time.Second, s.ReadHeaderTimeout),
				WriteTimeout:      config.MustOr(ctx, 10*time.Second, s.WriteTimeout),
				IdleTimeout:       config.MustOr(ctx, 120*time.Second, s.IdleTimeout),
				MaxHeaderBytes:    config.MustOr(ctx, 1<<20, s.MaxHeaderBytes),
			}
			if s.errorLog != nil {
				srv.ErrorLog = slog.NewLogLogger(s.errorLog, slog.LevelError)
			}

			return App{
				ln:              ln,
				srv:             srv,
				shutdownTimeout: config.MustOr(ctx, 10*time.Second, s.ShutdownTimeout),
			}, nil
		})
	})
}

// Addr returns the address the server is listening on.
func (a App) Addr() net.Addr {
	return a.ln.Addr()
}

// Run implements the [app.Runtime] interface.
//
// It serves until ctx is cancelled and then shuts down gracefully.
func (a App) Run(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return a.srv.Serve(a.ln)
	})
	eg.Go(func() error {
		<-egCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.shutdownTimeout)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	})

	err := eg.Wait()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
