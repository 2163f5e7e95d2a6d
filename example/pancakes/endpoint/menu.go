// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"net/http"

	"github.com/z5labs/instant/endpoint"
	"github.com/z5labs/instant/schema"
)

// MenuResponse lists the dishes of a category.
type MenuResponse struct {
	Category string `json:"category"`
	Dishes   []Dish `json:"dishes"`
}

// Menu lists the dishes of a category.
//
//	GET /menu?category=breakfast
func Menu(k *Kitchen, opts ...endpoint.Option) (*endpoint.Operation[MenuResponse], *endpoint.Client[MenuResponse], error) {
	return endpoint.Get(
		"/menu",
		endpoint.Requirements{
			SearchParams: endpoint.Group{
				"category": schema.String(schema.OneOf("breakfast", "dessert")),
			},
		},
		endpoint.HandlerFunc[MenuResponse](func(ctx context.Context, r *http.Request, args endpoint.Args) (*MenuResponse, error) {
			category, _ := endpoint.Value[string](args.SearchParams, "category")
			return &MenuResponse{
				Category: category,
				Dishes:   k.Dishes(category),
			}, nil
		}),
		opts...,
	)
}
