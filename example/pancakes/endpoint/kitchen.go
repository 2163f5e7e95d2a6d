// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package endpoint defines the pancake house endpoints. Each constructor
// returns the server half, to be registered with a rest.Api, and the
// client half used to call it.
package endpoint

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Dish is an item on the menu.
type Dish struct {
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category" yaml:"category"`
	Price    float64 `json:"price" yaml:"price"`
}

// Order is a placed order.
type Order struct {
	ID       string  `json:"id"`
	Customer string  `json:"customer"`
	Item     string  `json:"item"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// Kitchen holds the menu and every order placed so far.
// It is safe for concurrent use.
type Kitchen struct {
	menu []Dish

	mu     sync.Mutex
	orders []Order
}

// NewKitchen returns a [Kitchen] serving menu.
func NewKitchen(menu []Dish) *Kitchen {
	return &Kitchen{menu: slices.Clone(menu)}
}

// Dishes returns the dishes of the given category.
func (k *Kitchen) Dishes(category string) []Dish {
	var dishes []Dish
	for _, d := range k.menu {
		if d.Category == category {
			dishes = append(dishes, d)
		}
	}
	return dishes
}

// Find returns the first dish whose name contains q, ignoring case.
func (k *Kitchen) Find(q string) (Dish, bool) {
	q = strings.ToLower(q)
	for _, d := range k.menu {
		if strings.Contains(strings.ToLower(d.Name), q) {
			return d, true
		}
	}
	return Dish{}, false
}

// Place records an order for quantity of the named dish.
func (k *Kitchen) Place(customer, item string, quantity int) (Order, bool) {
	i := slices.IndexFunc(k.menu, func(d Dish) bool {
		return d.Name == item
	})
	if i < 0 {
		return Order{}, false
	}

	o := Order{
		ID:       uuid.NewString(),
		Customer: customer,
		Item:     item,
		Quantity: quantity,
		Total:    k.menu[i].Price * float64(quantity),
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.orders = append(k.orders, o)
	return o, true
}

// Orders returns a copy of every order placed so far.
func (k *Kitchen) Orders() []Order {
	k.mu.Lock()
	defer k.mu.Unlock()
	return slices.Clone(k.orders)
}
