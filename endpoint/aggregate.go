// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sourcegraph/conc"
)

// Outcome combines the results of every declared requirement group.
type Outcome struct {
	Args    Args
	Results []GroupResult
}

// Broken reports whether any declared group is broken.
func (o Outcome) Broken() bool {
	for _, res := range o.Results {
		if res.Broken() {
			return true
		}
	}
	return false
}

// Err returns a [*TransactionRejectedError] listing every field issue if
// the outcome is broken, otherwise nil.
func (o Outcome) Err() error {
	var issues []error
	for _, res := range o.Results {
		issues = append(issues, res.Issues...)
	}
	if len(issues) == 0 {
		return nil
	}
	return &TransactionRejectedError{Issues: issues}
}

// LogValue implements the [slog.LogValuer] interface.
func (o Outcome) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(o.Results))
	for _, res := range o.Results {
		attrs = append(attrs, slog.Any(string(res.Slot), res))
	}
	return slog.GroupValue(attrs...)
}

// Aggregate extracts every group declared in reqs from r.
//
// Groups are extracted concurrently and undeclared groups are never
// evaluated. Results are ordered headers, search params, body.
func Aggregate(ctx context.Context, r *http.Request, reqs Requirements, maxBodyBytes int64) Outcome {
	type extractor func() GroupResult

	var extractors []extractor
	if reqs.Headers != nil {
		extractors = append(extractors, func() GroupResult {
			return ExtractHeaders(ctx, r, reqs.Headers)
		})
	}
	if reqs.SearchParams != nil {
		extractors = append(extractors, func() GroupResult {
			return ExtractSearchParams(ctx, r, reqs.SearchParams)
		})
	}
	if reqs.Body != nil {
		extractors = append(extractors, func() GroupResult {
			return ExtractBody(ctx, r, reqs.Body, maxBodyBytes)
		})
	}

	results := make([]GroupResult, len(extractors))
	var wg conc.WaitGroup
	for i, extract := range extractors {
		wg.Go(func() {
			results[i] = extract()
		})
	}
	wg.Wait()

	var args Args
	for _, res := range results {
		args.set(res.Slot, res.Values)
	}
	return Outcome{
		Args:    args,
		Results: results,
	}
}
