// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package store

import (
	"database/sql"
	"fmt"

	"github.com/leaf76/lazy-milktea/internal/lmerr"
	"github.com/leaf76/lazy-milktea/internal/types"
)

const insertRowSQL = `
INSERT INTO logs (id, ts_unix, ts_display, ts_iso, level, tag, pid, tid, msg)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// BatchInserter appends rows within one SQLite transaction. Dropping a
// BatchInserter without calling Commit or Rollback leaves the transaction
// open: callers should defer Rollback() immediately after BeginBatch, which
// is a harmless no-op once Commit has already succeeded.
type BatchInserter struct {
	tx        *sql.Tx
	stmt      *sql.Stmt
	committed bool
}

// BeginBatch starts a new transaction for bulk row insertion.
func (s *Store) BeginBatch() (*BatchInserter, error) {
	if s.readOnly {
		return nil, lmerr.Database(fmt.Errorf("store opened read-only"))
	}
	tx, err := s.db.Begin()
	if err != nil {
		return nil, lmerr.Database(fmt.Errorf("begin transaction: %w", err))
	}
	stmt, err := tx.Prepare(insertRowSQL)
	if err != nil {
		_ = tx.Rollback()
		return nil, lmerr.Database(fmt.Errorf("prepare insert: %w", err))
	}
	return &BatchInserter{tx: tx, stmt: stmt}, nil
}

// Insert appends one row. id and tsUnixMs are supplied by the caller
// (the builder), which owns id assignment and timestamp conversion.
func (b *BatchInserter) Insert(row types.LogRow) error {
	var tsISO interface{}
	if row.TsISO != "" {
		tsISO = row.TsISO
	}
	_, err := b.stmt.Exec(row.ID, row.TsUnixMs, row.TsDisplay, tsISO, row.Level, row.Tag, row.PID, row.TID, row.Msg)
	if err != nil {
		return lmerr.Database(fmt.Errorf("insert row %d: %w", row.ID, err))
	}
	return nil
}

// Commit ends the transaction, making its rows visible to future batches
// and, once all batches are committed, to readers.
func (b *BatchInserter) Commit() error {
	if err := b.stmt.Close(); err != nil {
		_ = b.tx.Rollback()
		return lmerr.Database(fmt.Errorf("close insert statement: %w", err))
	}
	if err := b.tx.Commit(); err != nil {
		return lmerr.Database(fmt.Errorf("commit batch: %w", err))
	}
	b.committed = true
	return nil
}

// Rollback aborts the transaction. It is safe to call after a successful
// Commit (it becomes a no-op) so callers can unconditionally defer it.
func (b *BatchInserter) Rollback() error {
	if b.committed {
		return nil
	}
	_ = b.stmt.Close()
	if err := b.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return lmerr.Database(fmt.Errorf("rollback batch: %w", err))
	}
	return nil
}
