// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package query

import (
	"strings"

	"github.com/leaf76/lazy-milktea/internal/timeconv"
	"github.com/leaf76/lazy-milktea/internal/types"
)

// whereBuilder constructs a parameterized SQL WHERE clause over the logs
// table, styled after the database package's WhereBuilder but scoped to
// LogFilters and the cursor half-plane (§4.7 step 2).
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func newWhereBuilder() *whereBuilder {
	return &whereBuilder{}
}

func (wb *whereBuilder) add(clause string, args ...interface{}) *whereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// addLevels adds "level IN (?,...)" when levels is non-empty.
func (wb *whereBuilder) addLevels(levels []string) *whereBuilder {
	if len(levels) == 0 {
		return wb
	}
	placeholders := make([]string, len(levels))
	for i, lvl := range levels {
		placeholders[i] = "?"
		wb.args = append(wb.args, lvl)
	}
	wb.clauses = append(wb.clauses, "level IN ("+strings.Join(placeholders, ",")+")")
	return wb
}

// addTag adds "tag LIKE '%'||?||'%'" when tag is non-empty.
func (wb *whereBuilder) addTag(tag string) *whereBuilder {
	if tag == "" {
		return wb
	}
	return wb.add("tag LIKE '%'||?||'%'", tag)
}

// addPid adds "pid = ?" when pid is non-zero (0 means "not specified", §3).
func (wb *whereBuilder) addPid(pid int32) *whereBuilder {
	if pid == 0 {
		return wb
	}
	return wb.add("pid = ?", pid)
}

// addTid adds "tid = ?" when tid is non-zero.
func (wb *whereBuilder) addTid(tid int32) *whereBuilder {
	if tid == 0 {
		return wb
	}
	return wb.add("tid = ?", tid)
}

// addTimeRange adds the ts_unix >= / <= bounds derived from ts_from/ts_to
// via iso_ts_key_ms. A bound that fails to parse is silently skipped, per
// the original implementation's "if let Ok(..)" behavior.
func (wb *whereBuilder) addTimeRange(tsFrom, tsTo string) *whereBuilder {
	if tsFrom != "" {
		if ms, err := timeconv.ISOTSKeyMs(tsFrom); err == nil {
			wb.add("ts_unix >= ?", float64(ms))
		}
	}
	if tsTo != "" {
		if ms, err := timeconv.ISOTSKeyMs(tsTo); err == nil {
			wb.add("ts_unix <= ?", float64(ms))
		}
	}
	return wb
}

// addCursor adds the cursor half-plane: id > position (Forward) or
// id < position (Backward).
func (wb *whereBuilder) addCursor(cursor *types.QueryCursor) *whereBuilder {
	if cursor == nil {
		return wb
	}
	if cursor.Direction == types.Backward {
		return wb.add("id < ?", cursor.Position)
	}
	return wb.add("id > ?", cursor.Position)
}

// build returns the "WHERE ..." clause (empty string if no conditions)
// and the bound arguments in clause order.
func (wb *whereBuilder) build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(wb.clauses, " AND "), wb.args
}
