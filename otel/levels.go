// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/z5labs/instant/config"

	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// UnknownLogLevelError is returned for a level other than debug, info,
// warn or error.
type UnknownLogLevelError struct {
	Logger string
	Level  string
}

// Error implements the [error] interface.
func (e UnknownLogLevelError) Error() string {
	return fmt.Sprintf("unknown log level for %s: %s", e.Logger, e.Level)
}

// LogLevelsFromString parses a comma separated list of logger=level pairs,
// e.g. "github.com/z5labs/instant/endpoint=warn,pancakes=debug".
//
// Each logger name also matches every logger nested below it, so
// "github.com/z5labs/instant=error" quiets every instant package.
func LogLevelsFromString(r config.Reader[string]) config.Reader[map[string]log.Severity] {
	return config.Map(r, func(_ context.Context, s string) (map[string]log.Severity, error) {
		levels := make(map[string]log.Severity)
		for pair := range strings.SplitSeq(s, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}

			name, level, _ := strings.Cut(pair, "=")
			sev, ok := severity(level)
			if !ok {
				return nil, UnknownLogLevelError{Logger: name, Level: level}
			}
			levels[name] = sev
		}
		return levels, nil
	})
}

func severity(level string) (log.Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.SeverityDebug, true
	case "info":
		return log.SeverityInfo, true
	case "warn", "warning":
		return log.SeverityWarn, true
	case "error":
		return log.SeverityError, true
	default:
		return 0, false
	}
}

// levelProcessor drops records below the minimum severity configured for
// their logger.
type levelProcessor struct {
	sdklog.Processor

	levels map[string]log.Severity

	// longest first so the most specific logger name wins
	names []string
}

func filterLevels(p sdklog.Processor, levels map[string]log.Severity) sdklog.Processor {
	if len(levels) == 0 {
		return p
	}

	names := slices.SortedFunc(maps.Keys(levels), func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	return &levelProcessor{
		Processor: p,
		levels:    levels,
		names:     names,
	}
}

func (p *levelProcessor) OnEmit(ctx context.Context, record *sdklog.Record) error {
	floor, ok := p.minimum(record.InstrumentationScope().Name)
	if ok && record.Severity() < floor {
		return nil
	}
	return p.Processor.OnEmit(ctx, record)
}

func (p *levelProcessor) minimum(logger string) (log.Severity, bool) {
	for _, name := range p.names {
		if strings.HasPrefix(logger, name) {
			return p.levels[name], true
		}
	}
	return 0, false
}
