// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package query implements the cursor-paginated Query Executor (§4.7): it
// compiles LogFilters + cursor + direction + limit into a parameterized
// SQL statement against the Index Store, applies the text predicates that
// cannot safely be pushed down to SQL, and assembles a QueryResponse
// carrying the next/prev cursors for the caller's scrolling UI.
package query

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/leaf76/lazy-milktea/internal/cache"
	"github.com/leaf76/lazy-milktea/internal/lmerr"
	"github.com/leaf76/lazy-milktea/internal/metrics"
	"github.com/leaf76/lazy-milktea/internal/regexsafe"
	"github.com/leaf76/lazy-milktea/internal/store"
	"github.com/leaf76/lazy-milktea/internal/types"
)

// positionBuckets is the number of Fenwick-tree buckets used to estimate a
// cursor's position ratio within a filtered result set (see
// estimateDistribution). It trades resolution for a cheap GROUP BY scan
// that costs the same regardless of how many rows actually match.
const positionBuckets = 64

// Executor answers queries against a committed, read-only Index Store.
// It owns no write access and may run concurrently with other Executors
// against the same store (§5).
type Executor struct {
	db          *sql.DB
	pageCache   *cache.PageCache
	idOnlyOrder bool
}

// NewExecutor wraps an opened, read-only Store. pageCache may be nil, in
// which case every query hits the database directly.
//
// It probes once, at open time, for any row whose ts_unix conversion
// failed (stored as 0, §4.6 step 4). id is monotone in source order but
// ts_unix is not monotone in id once a zero-timestamp row is interleaved
// with successfully converted ones (§9's ordering caveat); rather than mix
// ordering modes within one store, the whole store falls back to ordering
// by id alone the moment a single such row is observed.
func NewExecutor(s *store.Store, pageCache *cache.PageCache) *Executor {
	e := &Executor{db: s.DB(), pageCache: pageCache}
	var hasZero bool
	_ = e.db.QueryRow("SELECT EXISTS(SELECT 1 FROM logs WHERE ts_unix = 0)").Scan(&hasZero)
	e.idOnlyOrder = hasZero
	return e
}

// Query runs one cursor-paginated query (§4.7).
func (e *Executor) Query(filters types.LogFilters, cursor *types.QueryCursor, limit int64, direction types.Direction) (types.QueryResponse, error) {
	start := time.Now()
	dirLabel := "forward"
	if direction == types.Backward {
		dirLabel = "backward"
	}
	resp, err := e.query(filters, cursor, limit, direction)
	if err == nil {
		metrics.ObserveQuery(dirLabel, time.Since(start), len(resp.Rows))
	}
	return resp, err
}

func (e *Executor) query(filters types.LogFilters, cursor *types.QueryCursor, limit int64, direction types.Direction) (types.QueryResponse, error) {
	filterHash := ComputeFilterHash(filters)

	if cursor != nil && cursor.FilterHash != 0 && cursor.FilterHash != filterHash {
		return types.QueryResponse{}, &lmerr.InvalidFilterError{Message: "filter changed, cursor invalid"}
	}

	cacheKey := pageCacheKey(filterHash, cursor, limit, direction)
	if e.pageCache != nil {
		if cached, ok := e.pageCache.Get(cacheKey); ok {
			metrics.CachePageHits.Inc()
			return cached.(types.QueryResponse), nil
		}
		metrics.CachePageMisses.Inc()
	}

	resp, err := e.queryUncached(filters, cursor, filterHash, limit, direction)
	if err != nil {
		return types.QueryResponse{}, err
	}
	if e.pageCache != nil {
		e.pageCache.Set(cacheKey, resp)
	}
	return resp, nil
}

// pageCacheKey identifies one page of results: the filter, the cursor
// position and requested direction, and the page size. A committed store
// never changes underneath a read-only Executor (§5), so this key is
// stable for the Executor's lifetime.
func pageCacheKey(filterHash uint64, cursor *types.QueryCursor, limit int64, direction types.Direction) string {
	pos := int64(0)
	if cursor != nil {
		pos = cursor.Position
	}
	return fmt.Sprintf("%d:%d:%d:%s", filterHash, pos, limit, direction)
}

func (e *Executor) queryUncached(filters types.LogFilters, cursor *types.QueryCursor, filterHash uint64, limit int64, direction types.Direction) (types.QueryResponse, error) {
	effectiveCursor := cursor
	if effectiveCursor != nil {
		effectiveCursor = &types.QueryCursor{Position: effectiveCursor.Position, Direction: direction, FilterHash: filterHash}
	}

	rows, err := e.executeQuery(filters, effectiveCursor, limit, direction)
	if err != nil {
		return types.QueryResponse{}, err
	}
	rows, err = applyTextFilters(rows, filters)
	if err != nil {
		return types.QueryResponse{}, err
	}

	resp := types.QueryResponse{Rows: rows}

	hasMore := int64(len(rows)) >= limit && limit > 0
	if hasMore {
		lastID := rows[len(rows)-1].ID
		c := types.QueryCursor{Position: lastID, Direction: types.Forward, FilterHash: filterHash}
		resp.NextCursor = &c
	}

	firstID := int64(0)
	if cursor != nil {
		firstID = cursor.Position
	}
	if cursor != nil {
		c := types.QueryCursor{Position: firstID, Direction: types.Backward, FilterHash: filterHash}
		resp.PrevCursor = &c
	}

	resp.HasMoreNext = hasMore && direction == types.Forward
	resp.HasMorePrev = cursor != nil && firstID > 0

	total, ratio := e.estimateDistribution(filters, cursor)
	if total >= 0 {
		resp.EstimatedTotal = &total
	}
	resp.PositionRatio = ratio

	return resp, nil
}

// executeQuery builds and runs the parameterized SELECT of §4.7 step 2-3.
func (e *Executor) executeQuery(filters types.LogFilters, cursor *types.QueryCursor, limit int64, direction types.Direction) ([]types.LogRow, error) {
	wb := newWhereBuilder().
		addLevels(filters.Levels).
		addTag(filters.Tag).
		addPid(filters.Pid).
		addTid(filters.Tid).
		addTimeRange(filters.TsFrom, filters.TsTo).
		addCursor(cursor)

	whereClause, args := wb.build()

	order := "ASC"
	if direction == types.Backward {
		order = "DESC"
	}

	orderBy := fmt.Sprintf("ts_unix %s, id %s", order, order)
	if e.idOnlyOrder {
		orderBy = fmt.Sprintf("id %s", order)
	}

	sqlText := fmt.Sprintf(
		"SELECT id, ts_unix, ts_display, ts_iso, level, tag, pid, tid, msg FROM logs %s ORDER BY %s LIMIT ?",
		whereClause, orderBy,
	)
	args = append(args, limit)

	rows, err := e.db.Query(sqlText, args...)
	if err != nil {
		return nil, lmerr.Database(fmt.Errorf("query logs: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var out []types.LogRow
	for rows.Next() {
		var r types.LogRow
		var tsISO sql.NullString
		if err := rows.Scan(&r.ID, &r.TsUnixMs, &r.TsDisplay, &tsISO, &r.Level, &r.Tag, &r.PID, &r.TID, &r.Msg); err != nil {
			return nil, lmerr.Database(fmt.Errorf("scan log row: %w", err))
		}
		r.TsISO = tsISO.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, lmerr.Database(err)
	}
	return out, nil
}

// applyTextFilters applies the Text/NotText predicates in process, after
// the SQL-bounded fetch (§4.7 step 4). Plain-mode predicates run through
// one matcher built once for the page; regex-mode predicates compile once
// per query via the Regex Safety Gate.
//
// Matching the original implementation this was ported from: a regex
// compile failure on the include predicate is a hard error (the gate must
// never be silently bypassed for an active filter), but a compile failure
// on the exclude predicate is treated as "no exclusion" rather than an
// error, since ValidateSafety has already run by the time compilation
// would fail and no unsafe pattern reaches the matcher either way.
func applyTextFilters(rows []types.LogRow, filters types.LogFilters) ([]types.LogRow, error) {
	if filters.Text == "" && filters.NotText == "" {
		return rows, nil
	}

	caseInsensitive := !filters.CaseSensitive

	if filters.TextMode == types.TextModeRegex {
		var includeRE, excludeRE *regexp.Regexp
		if filters.Text != "" {
			re, err := regexsafe.CompileUserRegex(filters.Text, caseInsensitive)
			if err != nil {
				return nil, err
			}
			includeRE = re
		}
		if filters.NotText != "" {
			if re, err := regexsafe.CompileUserRegex(filters.NotText, caseInsensitive); err == nil {
				excludeRE = re
			}
		}
		filtered := rows[:0:0]
		for _, r := range rows {
			if includeRE != nil && !includeRE.MatchString(r.Msg) {
				continue
			}
			if excludeRE != nil && excludeRE.MatchString(r.Msg) {
				continue
			}
			filtered = append(filtered, r)
		}
		return filtered, nil
	}

	matcher := cache.NewTextPredicateMatcher(filters.Text, filters.NotText, filters.CaseSensitive)
	filtered := rows[:0:0]
	for _, r := range rows {
		if matcher.Accept(r.Msg) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// estimateDistribution buckets the id range of the filter (ignoring the
// cursor and text predicates) into a Fenwick tree via one GROUP BY scan,
// and uses it to answer both EstimatedTotal and PositionRatio without a
// second full COUNT(*) pass. Returns total=-1 when there is nothing to
// estimate (no cursor, or an empty filtered set).
func (e *Executor) estimateDistribution(filters types.LogFilters, cursor *types.QueryCursor) (int64, float32) {
	if cursor == nil {
		return -1, 0
	}

	wb := newWhereBuilder().
		addLevels(filters.Levels).
		addTag(filters.Tag).
		addPid(filters.Pid).
		addTid(filters.Tid).
		addTimeRange(filters.TsFrom, filters.TsTo)
	whereClause, args := wb.build()

	var minID, maxID sql.NullInt64
	boundsSQL := fmt.Sprintf("SELECT MIN(id), MAX(id) FROM logs %s", whereClause)
	if err := e.db.QueryRow(boundsSQL, args...).Scan(&minID, &maxID); err != nil || !minID.Valid {
		return -1, 0
	}

	span := maxID.Int64 - minID.Int64 + 1
	if span <= 0 {
		return -1, 0
	}
	bucketWidth := span / positionBuckets
	if bucketWidth < 1 {
		bucketWidth = 1
	}

	bucketSQL := fmt.Sprintf(
		"SELECT CAST((id - ?) / ? AS INTEGER) AS bucket, COUNT(*) FROM logs %s GROUP BY bucket",
		whereClause,
	)
	bucketArgs := append([]interface{}{minID.Int64, bucketWidth}, args...)

	rows, err := e.db.Query(bucketSQL, bucketArgs...)
	if err != nil {
		return -1, 0
	}
	defer func() { _ = rows.Close() }()

	ft := cache.NewFenwickTree(positionBuckets)
	for rows.Next() {
		var bucket int
		var count int64
		if err := rows.Scan(&bucket, &count); err != nil {
			return -1, 0
		}
		if bucket < 0 {
			bucket = 0
		}
		if bucket >= positionBuckets {
			bucket = positionBuckets - 1
		}
		ft.Update(bucket, count)
	}

	total := ft.Total()
	if total <= 0 {
		return -1, 0
	}

	cursorBucket := int((cursor.Position - minID.Int64) / bucketWidth)
	if cursorBucket < 0 {
		cursorBucket = 0
	}
	if cursorBucket >= positionBuckets {
		cursorBucket = positionBuckets - 1
	}
	ratio := float32(ft.PrefixSum(cursorBucket)) / float32(total)
	return total, ratio
}
