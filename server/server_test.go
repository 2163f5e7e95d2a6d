// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/z5labs/instant/app"
	"github.com/z5labs/instant/config"

	"github.com/stretchr/testify/require"
)

func handlerBuilder(h http.Handler) app.Builder[http.Handler] {
	return app.BuilderFunc[http.Handler](func(ctx context.Context) (http.Handler, error) {
		return h, nil
	})
}

func localListener() TCPListener {
	return TCPListener{Addr: config.ReaderOf("127.0.0.1:0")}
}

func TestBuild(t *testing.T) {
	t.Run("will apply defaults", func(t *testing.T) {
		t.Run("if no option is set", func(t *testing.T) {
			b := Build(NewServer(localListener()), handlerBuilder(http.NotFoundHandler()))

			a, err := b.Build(t.Context())
			require.NoError(t, err)
			defer a.ln.Close()

			require.Equal(t, 5*time.Second, a.srv.ReadTimeout)
			require.Equal(t, 2*time.Second, a.srv.ReadHeaderTimeout)
			require.Equal(t, 10*time.Second, a.srv.WriteTimeout)
			require.Equal(t, 120*time.Second, a.srv.IdleTimeout)
			require.Equal(t, 1<<20, a.srv.MaxHeaderBytes)
			require.Equal(t, 10*time.Second, a.shutdownTimeout)
			require.NotNil(t, a.srv.ErrorLog)
		})
	})

	t.Run("will read settings from the environment", func(t *testing.T) {
		t.Setenv("HTTP_READ_TIMEOUT", "1s")
		t.Setenv("HTTP_MAX_HEADER_BYTES", "4096")
		t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "3s")

		b := Build(NewServer(localListener(), FromEnv()), handlerBuilder(http.NotFoundHandler()))

		a, err := b.Build(t.Context())
		require.NoError(t, err)
		defer a.ln.Close()

		require.Equal(t, time.Second, a.srv.ReadTimeout)
		require.Equal(t, 2*time.Second, a.srv.ReadHeaderTimeout)
		require.Equal(t, 4096, a.srv.MaxHeaderBytes)
		require.Equal(t, 3*time.Second, a.shutdownTimeout)
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the handler can not be built", func(t *testing.T) {
			buildErr := errors.New("failed to build")
			b := Build(NewServer(localListener()), app.BuilderFunc[http.Handler](func(ctx context.Context) (http.Handler, error) {
				return nil, buildErr
			}))

			_, err := b.Build(t.Context())
			require.ErrorIs(t, err, buildErr)
		})

		t.Run("if the listener can not be opened", func(t *testing.T) {
			b := Build(
				NewServer(TCPListener{Addr: config.ReaderOf("not-an-address")}),
				handlerBuilder(http.NotFoundHandler()),
			)

			_, err := b.Build(t.Context())

			var opErr *net.OpError
			require.ErrorAs(t, err, &opErr)
		})

		t.Run("if no listener is configured", func(t *testing.T) {
			b := Build(NewServer(nil), handlerBuilder(http.NotFoundHandler()))

			_, err := b.Build(t.Context())
			require.ErrorIs(t, err, config.ErrValueNotSet)
		})
	})
}

func TestApp_Run(t *testing.T) {
	t.Run("will serve until the context is cancelled", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "pancakes")
		})
		b := Build(NewServer(localListener()), handlerBuilder(h))

		a, err := b.Build(t.Context())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		errCh := make(chan error, 1)
		go func() {
			errCh <- a.Run(ctx)
		}()

		resp, err := http.Get("http://" + a.Addr().String())
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, "pancakes", string(body))

		cancel()
		select {
		case err := <-errCh:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})
}
