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

// Search sends the browser to the menu page of the first dish matching q.
//
//	GET /search?q=waffle
//
// Unknown dishes land on the breakfast menu.
func Search(k *Kitchen, opts ...endpoint.Option) (*endpoint.Operation[endpoint.RedirectResponse], *endpoint.Redirector, error) {
	return endpoint.GetRedirect(
		"/search",
		endpoint.Requirements{
			SearchParams: endpoint.Group{
				"q": schema.String(schema.MinLength(1), schema.MaxLength(64)),
			},
		},
		endpoint.HandlerFunc[endpoint.RedirectResponse](func(ctx context.Context, r *http.Request, args endpoint.Args) (*endpoint.RedirectResponse, error) {
			q, _ := endpoint.Value[string](args.SearchParams, "q")

			category := "breakfast"
			if d, ok := k.Find(q); ok {
				category = d.Category
			}
			return endpoint.Redirect("/menu?category="+category, http.StatusFound), nil
		}),
		opts...,
	)
}
