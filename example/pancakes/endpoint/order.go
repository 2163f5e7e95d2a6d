// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/z5labs/instant"
	"github.com/z5labs/instant/endpoint"
	"github.com/z5labs/instant/schema"
)

// DishNotFoundError is returned when an order names a dish which is not
// on the menu.
type DishNotFoundError struct {
	Item string
}

// Error implements the [error] interface.
func (e DishNotFoundError) Error() string {
	return "dish is not on the menu: " + e.Item
}

// WriteHttpResponse implements the [endpoint.HttpResponseWriter] interface.
func (e DishNotFoundError) WriteHttpResponse(ctx context.Context, w http.ResponseWriter) {
	endpoint.Status(http.StatusNotFound, map[string]string{"error": e.Error()}).WriteResponse(ctx, w)
}

type orderBody struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// PlaceOrder places an order on behalf of the customer named in the
// JSON encoded customer header.
//
//	POST /orders
//	customer: "Alice"
//
//	{"item": "Buttermilk pancakes", "quantity": 2}
//
// Ordering a dish which is not on the menu answers 404.
func PlaceOrder(k *Kitchen, opts ...endpoint.Option) (*endpoint.Operation[Order], *endpoint.Client[Order], error) {
	log := instant.Logger("github.com/z5labs/instant/example/pancakes/endpoint")

	return endpoint.Post(
		"/orders",
		endpoint.Requirements{
			Headers: endpoint.Group{
				"customer": schema.String(schema.MinLength(1)),
			},
			Body: endpoint.Group{
				"item":     schema.String(schema.MinLength(1)),
				"quantity": schema.Integer(schema.Min(1), schema.Max(20)),
			},
		},
		endpoint.HandlerFunc[Order](func(ctx context.Context, r *http.Request, args endpoint.Args) (*Order, error) {
			customer, _ := endpoint.Value[string](args.Headers, "customer")

			var body orderBody
			err := args.Body.Decode(&body)
			if err != nil {
				return nil, err
			}

			order, ok := k.Place(customer, body.Item, body.Quantity)
			if !ok {
				return nil, DishNotFoundError{Item: body.Item}
			}

			log.InfoContext(ctx, "order placed", slog.String("order_id", order.ID))
			return &order, nil
		}),
		opts...,
	)
}
