// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package store

import (
	"fmt"

	"github.com/leaf76/lazy-milktea/internal/lmerr"
)

const createLogsTable = `
CREATE TABLE IF NOT EXISTS logs (
	id         INTEGER PRIMARY KEY,
	ts_unix    REAL    NOT NULL,
	ts_display TEXT    NOT NULL,
	ts_iso     TEXT,
	level      TEXT    NOT NULL,
	tag        TEXT    NOT NULL,
	pid        INTEGER NOT NULL,
	tid        INTEGER NOT NULL,
	msg        TEXT    NOT NULL
)`

const createSummaryTable = `
CREATE TABLE IF NOT EXISTS index_summary (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// createSchema creates the logs table and the summary table, but
// deliberately not the secondary indexes or the FTS virtual table -- those
// are deferred to RebuildSecondaryAndFTS so the bulk insert path never pays
// their maintenance cost row by row.
func (s *Store) createSchema() error {
	for _, ddl := range []string{createLogsTable, createSummaryTable} {
		if _, err := s.db.Exec(ddl); err != nil {
			return lmerr.Database(fmt.Errorf("create schema: %w", err))
		}
	}
	return nil
}

var secondaryIndexDDL = []string{
	"CREATE INDEX IF NOT EXISTS idx_logs_ts_unix ON logs(ts_unix)",
	"CREATE INDEX IF NOT EXISTS idx_logs_level ON logs(level)",
	"CREATE INDEX IF NOT EXISTS idx_logs_tag ON logs(tag)",
	"CREATE INDEX IF NOT EXISTS idx_logs_pid ON logs(pid)",
}

const createFTSTable = `
CREATE VIRTUAL TABLE IF NOT EXISTS logs_fts USING fts5(
	msg,
	content='logs',
	content_rowid='id'
)`

// RebuildSecondaryAndFTS creates the deferred secondary indexes and the
// full-text virtual table, then rebuilds the FTS index from the logs
// table's current contents. Run exactly once, after the bulk load commits.
func (s *Store) RebuildSecondaryAndFTS() error {
	if s.readOnly {
		return lmerr.Database(fmt.Errorf("store opened read-only"))
	}
	for _, ddl := range secondaryIndexDDL {
		if _, err := s.db.Exec(ddl); err != nil {
			return lmerr.Database(fmt.Errorf("create secondary index: %w", err))
		}
	}
	if _, err := s.db.Exec(createFTSTable); err != nil {
		return lmerr.Database(fmt.Errorf("create fts table: %w", err))
	}
	if _, err := s.db.Exec(`INSERT INTO logs_fts(logs_fts) VALUES('rebuild')`); err != nil {
		return lmerr.Database(fmt.Errorf("rebuild fts: %w", err))
	}
	return nil
}

// Optimize runs an FTS5 optimize merge, ANALYZE for the query planner, and
// restores synchronous=NORMAL now that the bulk load is finished.
func (s *Store) Optimize() error {
	if s.readOnly {
		return lmerr.Database(fmt.Errorf("store opened read-only"))
	}
	if _, err := s.db.Exec(`INSERT INTO logs_fts(logs_fts) VALUES('optimize')`); err != nil {
		return lmerr.Database(fmt.Errorf("optimize fts: %w", err))
	}
	if _, err := s.db.Exec("ANALYZE"); err != nil {
		return lmerr.Database(fmt.Errorf("analyze: %w", err))
	}
	return s.restoreNormalSync()
}
