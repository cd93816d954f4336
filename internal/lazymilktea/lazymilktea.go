// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package lazymilktea is the public facade over the indexing and query
// pipeline (§6): it wires internal/builder, internal/store, internal/query
// and internal/cache behind the five operations a host -- the CLI in
// cmd/lazymilktea, or any other embedder -- actually calls: Parse,
// ParseStreaming, Query, JumpToTime and GetStats.
package lazymilktea

import (
	"context"
	"sync"

	"github.com/leaf76/lazy-milktea/internal/builder"
	"github.com/leaf76/lazy-milktea/internal/cache"
	"github.com/leaf76/lazy-milktea/internal/config"
	"github.com/leaf76/lazy-milktea/internal/logging"
	"github.com/leaf76/lazy-milktea/internal/query"
	"github.com/leaf76/lazy-milktea/internal/store"
	"github.com/leaf76/lazy-milktea/internal/types"
)

var (
	defaultsMu sync.RWMutex
	defaults   = config.Config{}.Normalize()
)

// Configure sets the package-wide defaults applied to every subsequent
// Parse/ParseStreaming call: the cache root (§4.8) and the bulk-load batch
// commit size (§5). A host typically calls this once at startup with the
// result of internal/config.Load; the zero value keeps package defaults.
func Configure(cfg config.Config) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaults = cfg.Normalize()
}

// ParseResult re-exports types.ParseResult so callers need not import
// internal/types directly.
type ParseResult = types.ParseResult

// BuildProgress re-exports builder.BuildProgress.
type BuildProgress = builder.BuildProgress

// LogFilters, QueryCursor, QueryResponse, Direction and LogcatStats
// re-export their internal/types counterparts for the same reason.
type (
	LogFilters    = types.LogFilters
	QueryCursor   = types.QueryCursor
	QueryResponse = types.QueryResponse
	Direction     = types.Direction
	LogcatStats   = types.LogcatStats
)

const (
	Forward  = types.Forward
	Backward = types.Backward
)

// Parse runs a full, non-streaming build: internal/builder.Build, with
// cancellation wired to ctx instead of a host-managed flag. Prefer
// ParseStreaming when the host wants progress events.
func Parse(ctx context.Context, path string) (ParseResult, error) {
	return ParseStreaming(ctx, path, nil)
}

// ParseStreaming runs a build and forwards every emitted BuildProgress to
// progress, if non-nil. progress is never closed by this function; the
// caller owns its lifecycle. Cancelling ctx cooperatively stops the
// builder at the next line boundary (§5).
func ParseStreaming(ctx context.Context, path string, progress chan<- BuildProgress) (ParseResult, error) {
	// Every build gets its own run id so the lines of concurrent builds
	// can be told apart in interleaved log output.
	ctx = logging.ContextWithNewRunID(ctx)

	defaultsMu.RLock()
	cfg := defaults
	defaultsMu.RUnlock()

	opts := []builder.Option{
		builder.WithCacheRoot(cfg.CacheRoot),
		builder.WithBatchCommitSize(cfg.BatchCommitSize),
	}
	if progress != nil {
		opts = append(opts, builder.WithProgress(func(p BuildProgress) {
			select {
			case progress <- p:
			case <-ctx.Done():
			}
		}))
	}
	b := builder.New(opts...)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			b.Cancel()
		case <-done:
		}
	}()

	logging.Ctx(ctx).Info().Str("path", path).Msg("starting build")
	result, err := b.Build(path)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("path", path).Msg("build failed")
		return ParseResult{}, err
	}
	logging.Ctx(ctx).Info().Str("path", path).Int64("rows", result.IndexSummary.TotalRows).Msg("build complete")
	return result, nil
}

// openExecutor opens the Index Store at dbPath read-only and wraps it in a
// Query Executor. The returned Store must be closed by the caller once the
// Executor is no longer needed.
func openExecutor(dbPath string) (*store.Store, *query.Executor, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	pageCache := cache.NewPageCache(256)
	return s, query.NewExecutor(s, pageCache), nil
}

// Query runs one cursor-paginated query against the store at dbPath (§4.7).
// ctx is accepted for the public operation's signature and for log
// correlation; the query itself runs as a single synchronous database
// round trip with no long-lived resources to cancel mid-flight.
func Query(ctx context.Context, dbPath string, filters LogFilters, cursor *QueryCursor, limit int, dir Direction) (QueryResponse, error) {
	s, exec, err := openExecutor(dbPath)
	if err != nil {
		return QueryResponse{}, err
	}
	defer func() { _ = s.Close() }()

	resp, err := exec.Query(filters, cursor, int64(limit), dir)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("path", dbPath).Msg("query failed")
		return QueryResponse{}, err
	}
	return resp, nil
}

// JumpToTime runs Query with filters.TsFrom overridden to targetISO and no
// cursor, i.e. "scroll to the first row at or after this instant" (§4.7).
func JumpToTime(ctx context.Context, dbPath string, filters LogFilters, targetISO string, limit int) (QueryResponse, error) {
	s, exec, err := openExecutor(dbPath)
	if err != nil {
		return QueryResponse{}, err
	}
	defer func() { _ = s.Close() }()

	resp, err := exec.JumpToTime(filters, targetISO, int64(limit))
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("path", dbPath).Str("target", targetISO).Msg("jump_to_time failed")
		return QueryResponse{}, err
	}
	return resp, nil
}

// GetStats returns aggregate statistics over the store at dbPath (§4.7
// step 6). filters is accepted to match the public operation's signature
// but is not applied, matching internal/query.Executor.GetStats.
func GetStats(ctx context.Context, dbPath string, filters LogFilters) (LogcatStats, error) {
	s, exec, err := openExecutor(dbPath)
	if err != nil {
		return LogcatStats{}, err
	}
	defer func() { _ = s.Close() }()

	stats, err := exec.GetStats(filters)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("path", dbPath).Msg("get_stats failed")
		return LogcatStats{}, err
	}
	return stats, nil
}
