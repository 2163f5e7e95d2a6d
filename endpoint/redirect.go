// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

// Navigator moves the client to url, e.g. by pushing it onto a router.
type Navigator func(url string)

// Redirector calls a GETREDIRECT endpoint by navigating to it instead of
// sending a request.
type Redirector struct {
	spec    Spec
	baseUrl string
}

// Kind implements the [Caller] interface.
func (r *Redirector) Kind() Kind {
	return r.spec.Kind
}

func (*Redirector) caller() {}

// URL returns the URL navigated to for args.
func (r *Redirector) URL(args Args) string {
	return r.baseUrl + r.spec.URL + QueryString(args.SearchParams)
}

// Redirect invokes nav with the endpoint URL. No network call is made.
// It does nothing if nav is nil.
func (r *Redirector) Redirect(args Args, nav Navigator) {
	if nav == nil {
		return
	}
	nav(r.URL(args))
}
