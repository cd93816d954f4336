// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package query

import (
	"database/sql"
	"fmt"

	"github.com/leaf76/lazy-milktea/internal/lmerr"
	"github.com/leaf76/lazy-milktea/internal/types"
)

// GetStats returns aggregate statistics over the whole store (§4.7 step
// 6). filters is accepted to match the public operation's signature (§6)
// but, per the original implementation, is not applied: stats describe
// the store as a whole, not a filtered subset, and FilteredRows is always
// nil. A filter-aware overview is left to a future GetFilteredStats if a
// host ever needs one.
func (e *Executor) GetStats(_ types.LogFilters) (types.LogcatStats, error) {
	var stats types.LogcatStats

	if err := e.db.QueryRow("SELECT COUNT(*) FROM logs").Scan(&stats.TotalRows); err != nil {
		return stats, lmerr.Database(fmt.Errorf("count logs: %w", err))
	}

	var minTS, maxTS sql.NullInt64
	err := e.db.QueryRow(
		"SELECT MIN(CAST(ts_unix AS INTEGER)), MAX(CAST(ts_unix AS INTEGER)) FROM logs",
	).Scan(&minTS, &maxTS)
	if err != nil {
		return stats, lmerr.Database(fmt.Errorf("min/max ts_unix: %w", err))
	}
	if minTS.Valid {
		v := minTS.Int64
		stats.MinTimestamp = &v
	}
	if maxTS.Valid {
		v := maxTS.Int64
		stats.MaxTimestamp = &v
	}

	var minDisplay, maxDisplay sql.NullString
	if err := e.db.QueryRow("SELECT ts_display FROM logs ORDER BY ts_unix ASC LIMIT 1").Scan(&minDisplay); err == nil && minDisplay.Valid {
		v := minDisplay.String
		stats.MinTsDisplay = &v
	}
	if err := e.db.QueryRow("SELECT ts_display FROM logs ORDER BY ts_unix DESC LIMIT 1").Scan(&maxDisplay); err == nil && maxDisplay.Valid {
		v := maxDisplay.String
		stats.MaxTsDisplay = &v
	}

	counts, err := e.levelCounts()
	if err != nil {
		return stats, err
	}
	stats.LevelCounts = counts

	return stats, nil
}

func (e *Executor) levelCounts() (types.LevelCounts, error) {
	var counts types.LevelCounts

	rows, err := e.db.Query("SELECT level, COUNT(*) FROM logs GROUP BY level")
	if err != nil {
		return counts, lmerr.Database(fmt.Errorf("level counts: %w", err))
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var level string
		var count int64
		if err := rows.Scan(&level, &count); err != nil {
			return counts, lmerr.Database(err)
		}
		switch level {
		case "V":
			counts.Verbose = count
		case "D":
			counts.Debug = count
		case "I":
			counts.Info = count
		case "W":
			counts.Warning = count
		case "E":
			counts.Error = count
		case "F":
			counts.Fatal = count
		}
	}
	return counts, rows.Err()
}

// JumpToTime expresses "jump to time" by overriding filters.TsFrom and
// issuing a Forward query with no cursor (§4.7, final paragraph).
func (e *Executor) JumpToTime(filters types.LogFilters, targetTimeISO string, limit int64) (types.QueryResponse, error) {
	jump := filters
	jump.TsFrom = targetTimeISO
	return e.Query(jump, nil, limit, types.Forward)
}
