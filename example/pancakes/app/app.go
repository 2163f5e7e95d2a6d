// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"os"

	"github.com/z5labs/instant/config"
	"github.com/z5labs/instant/endpoint"
	"github.com/z5labs/instant/rest"

	pancakes "github.com/z5labs/instant/example/pancakes/endpoint"
)

//go:embed menu.yaml
var defaultMenu []byte

// Menu is the YAML document listing every dish.
type Menu struct {
	Dishes []pancakes.Dish `yaml:"dishes"`
}

// MenuFromEnv reads the menu from the file named by MENU_FILE, falling
// back to the built-in menu.
func MenuFromEnv() config.Reader[Menu] {
	file := config.Map(config.Env("MENU_FILE"), func(_ context.Context, name string) ([]byte, error) {
		return os.ReadFile(name)
	})

	src := config.Map(
		config.Or(file, config.ReaderOf(defaultMenu)),
		func(_ context.Context, b []byte) (io.Reader, error) {
			return bytes.NewReader(b), nil
		},
	)
	return config.UnmarshalYAML[Menu](src)
}

// BuildApi registers every pancake house endpoint.
func BuildApi(ctx context.Context, menu Menu, ready *rest.Flag) (*rest.Api, error) {
	k := pancakes.NewKitchen(menu.Dishes)

	opts := []endpoint.Option{
		endpoint.RejectionStatus(config.MustOr(ctx, 0, config.IntFromString(config.Env("REJECTION_STATUS")))),
	}

	menuOp, _, err := pancakes.Menu(k, opts...)
	if err != nil {
		return nil, err
	}
	orderOp, _, err := pancakes.PlaceOrder(k, opts...)
	if err != nil {
		return nil, err
	}
	searchOp, _, err := pancakes.Search(k, opts...)
	if err != nil {
		return nil, err
	}

	api := rest.NewApi(
		"Pancakes",
		"v0.0.0",
		rest.Readiness(ready),
		rest.Register(menuOp),
		rest.Register(orderOp),
		rest.Register(searchOp),
	)
	return api, nil
}
