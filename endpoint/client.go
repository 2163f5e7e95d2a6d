// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"bytes"
	"context"
	"io"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/z5labs/instant"
	"github.com/z5labs/instant/internal/safejson"

	"github.com/goccy/go-json"
	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Caller is the client half of an endpoint. It is either a [*Client]
// for GET and POST endpoints or a [*Redirector] for GETREDIRECT endpoints.
type Caller interface {
	Kind() Kind

	caller()
}

// New builds both halves of the endpoint described by spec.
//
// The returned [Caller] is a [*Client] for [KindGet] and [KindPost]
// endpoints and a [*Redirector] for [KindGetRedirect] endpoints. Prefer
// [Get], [Post] or [GetRedirect] to receive the concrete caller type.
func New[Resp any](spec Spec, h Handler[Resp], opts ...Option) (*Operation[Resp], Caller, error) {
	err := spec.Validate()
	if err != nil {
		return nil, nil, err
	}
	spec.Requirements = spec.Requirements.clone()

	o := &Options{
		logHandler:   instant.LogHandler(instrumentationName),
		maxBodyBytes: DefaultMaxBodyBytes,
		httpClient:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.errHandler == nil {
		o.errHandler = defaultErrorHandler(o.logHandler)
	}

	op := newOperation(spec, h, o)

	var c Caller
	switch spec.Kind {
	case KindGet, KindPost:
		c = newClient[Resp](spec, o)
	case KindGetRedirect:
		c = &Redirector{
			spec:    spec,
			baseUrl: o.baseUrl,
		}
	}
	return op, c, nil
}

// Get builds a [KindGet] endpoint.
func Get[Resp any](url string, reqs Requirements, h Handler[Resp], opts ...Option) (*Operation[Resp], *Client[Resp], error) {
	op, c, err := New(Spec{URL: url, Kind: KindGet, Requirements: reqs}, h, opts...)
	if err != nil {
		return nil, nil, err
	}
	return op, c.(*Client[Resp]), nil
}

// Post builds a [KindPost] endpoint.
func Post[Resp any](url string, reqs Requirements, h Handler[Resp], opts ...Option) (*Operation[Resp], *Client[Resp], error) {
	op, c, err := New(Spec{URL: url, Kind: KindPost, Requirements: reqs}, h, opts...)
	if err != nil {
		return nil, nil, err
	}
	return op, c.(*Client[Resp]), nil
}

// GetRedirect builds a [KindGetRedirect] endpoint.
func GetRedirect[Resp any](url string, reqs Requirements, h Handler[Resp], opts ...Option) (*Operation[Resp], *Redirector, error) {
	op, c, err := New(Spec{URL: url, Kind: KindGetRedirect, Requirements: reqs}, h, opts...)
	if err != nil {
		return nil, nil, err
	}
	return op, c.(*Redirector), nil
}

// Client calls a GET or POST endpoint over HTTP.
//
// No validation is performed before sending. Arguments which do not
// satisfy the endpoint requirements are rejected by the endpoint itself.
type Client[Resp any] struct {
	spec    Spec
	baseUrl string
	hc      *http.Client
}

func newClient[Resp any](spec Spec, o *Options) *Client[Resp] {
	hc := *o.httpClient
	transport := hc.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	hc.Transport = otelhttp.NewTransport(transport)

	return &Client[Resp]{
		spec:    spec,
		baseUrl: o.baseUrl,
		hc:      &hc,
	}
}

// Kind implements the [Caller] interface.
func (c *Client[Resp]) Kind() Kind {
	return c.spec.Kind
}

func (*Client[Resp]) caller() {}

// URL returns the URL the request for args is sent to.
func (c *Client[Resp]) URL(args Args) string {
	return c.baseUrl + c.spec.URL + QueryString(args.SearchParams)
}

// Call sends args to the endpoint and decodes the JSON response into Resp.
//
// A rejected request returns an error matching [ErrTransactionRejected],
// whatever status code the rejection was sent with. Any other 4xx or 5xx
// response returns an [UnexpectedStatusError].
func (c *Client[Resp]) Call(ctx context.Context, args Args) (_ *Resp, err error) {
	req, err := c.newRequest(ctx, args)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer try.Close(&err, resp.Body)

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if isRejection(b) {
		return nil, &TransactionRejectedError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Body:       b,
		}
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}

	var out Resp
	err = json.Unmarshal(b, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client[Resp]) newRequest(ctx context.Context, args Args) (*http.Request, error) {
	var body io.Reader
	if c.spec.Kind == KindPost && args.Body != nil {
		b, err := json.Marshal(args.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, c.spec.Kind.HttpMethod(), c.URL(args), body)
	if err != nil {
		return nil, err
	}

	for name, value := range c.spec.Requirements.StaticHeaders {
		req.Header.Set(name, value)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	headers, err := EncodeHeaders(args.Headers)
	if err != nil {
		return nil, err
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	return req, nil
}

// EncodeHeaders JSON encodes every header value independently.
func EncodeHeaders(vals Values) (map[string]string, error) {
	headers := make(map[string]string, len(vals))
	for name, v := range vals {
		s, err := safejson.Stringify(v)
		if err != nil {
			return nil, err
		}
		headers[name] = s
	}
	return headers, nil
}

// QueryString joins vals into "?name=value&..." in lexical name order.
//
// Values are written in their native string form and are NOT percent
// encoded, so values containing &, =, +, % or spaces do not survive the
// round trip: the server reads + as a space and drops any pair with a
// malformed % escape. An empty or nil vals produces an empty string.
func QueryString(vals Values) string {
	if len(vals) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, name := range slices.Sorted(maps.Keys(vals)) {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(nativeString(vals[name]))
	}
	return sb.String()
}

func nativeString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case nil:
		return "null"
	default:
		s, err := safejson.Stringify(x)
		if err != nil {
			return ""
		}
		return s
	}
}
