// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/z5labs/instant/schema"
)

type Greeting struct {
	Text string `json:"text"`
}

func ExampleGet() {
	op, client, err := Get(
		"/greet",
		Requirements{
			Headers:      Group{"name": schema.String(schema.MinLength(1))},
			SearchParams: Group{"lang": schema.String(schema.OneOf("en", "pl"))},
		},
		HandlerFunc[Greeting](func(ctx context.Context, r *http.Request, args Args) (*Greeting, error) {
			name, _ := Value[string](args.Headers, "name")
			lang, _ := Value[string](args.SearchParams, "lang")
			if lang == "pl" {
				return &Greeting{Text: "Cześć " + name}, nil
			}
			return &Greeting{Text: "Hello " + name}, nil
		}),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	srv := httptest.NewServer(op)
	defer srv.Close()
	client.baseUrl = srv.URL

	greeting, err := client.Call(context.Background(), Args{
		Headers:      Values{"name": "Alice"},
		SearchParams: Values{"lang": "pl"},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(greeting.Text)

	_, err = client.Call(context.Background(), Args{
		SearchParams: Values{"lang": "de"},
	})
	fmt.Println(err)
	// Output: Cześć Alice
	// transaction requirements weren't met
}

func ExampleRedirector_Redirect() {
	_, redirector, err := GetRedirect(
		"/search",
		Requirements{
			SearchParams: Group{"q": schema.String()},
		},
		HandlerFunc[RedirectResponse](func(ctx context.Context, r *http.Request, args Args) (*RedirectResponse, error) {
			return Redirect("/results", http.StatusFound), nil
		}),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	redirector.Redirect(Args{SearchParams: Values{"q": "pancakes"}}, func(url string) {
		fmt.Println(url)
	})
	// Output: /search?q=pancakes
}
