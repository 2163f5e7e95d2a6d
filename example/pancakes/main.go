// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Pancakes serves a small pancake house API built from instant endpoints.
package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/z5labs/instant/app"
	"github.com/z5labs/instant/config"
	pancakes "github.com/z5labs/instant/example/pancakes/app"
	"github.com/z5labs/instant/otel"
	"github.com/z5labs/instant/rest"
	"github.com/z5labs/instant/server"
)

func main() {
	srv := server.NewServer(
		server.TCPListener{
			Addr: config.Default(":8080", server.AddrFromEnv()),
		},
		server.FromEnv(),
	)

	ready := &rest.Flag{}
	api := app.BuilderFunc[http.Handler](func(ctx context.Context) (http.Handler, error) {
		menu, err := config.Read(ctx, pancakes.MenuFromEnv())
		if err != nil {
			return nil, err
		}
		return pancakes.BuildApi(ctx, menu, ready)
	})

	rt := app.WithHooks(func(ctx context.Context, h *app.Hooks) (server.App, error) {
		a, err := server.Build(srv, api).Build(ctx)
		if err != nil {
			return server.App{}, err
		}

		ready.Raise()
		h.OnPostRun(func(context.Context) error {
			ready.Lower()
			return nil
		})
		return a, nil
	})

	err := app.Run(context.Background(), otel.Build(otel.ConfigFromEnv(), rt))
	app.LogError(slog.Default().Handler(), err)
}
