// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package store owns the on-disk index: an embedded SQLite database holding
// every parsed log row, with secondary indexes on time, level, tag, pid and
// a full-text index over the message column. Exactly one writer (the
// streaming builder) holds a Store at a time; any number of readers
// (query executors) may open the same committed file concurrently.
package store

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/leaf76/lazy-milktea/internal/lmerr"
	"github.com/leaf76/lazy-milktea/internal/logging"
)

// Store wraps the SQLite connection backing one logcat index file.
type Store struct {
	db       *sql.DB
	path     string
	readOnly bool
}

// Create replaces any existing file at path and opens it with the
// bulk-load pragma set (§4.5): WAL journaling, synchronous=OFF, a large
// page cache, memory-resident temp tables, and a large mmap window.
// Secondary indexes and the full-text table are intentionally not created
// here; RebuildSecondaryAndFTS builds them once, after the bulk load.
func Create(path string) (*Store, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, lmerr.Database(fmt.Errorf("remove existing index: %w", err))
	}
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		_ = os.Remove(path + suffix)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, lmerr.Database(fmt.Errorf("open index: %w", err))
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.applyBulkPragmas(); err != nil {
		closeQuietly(db)
		return nil, err
	}
	if err := s.createSchema(); err != nil {
		closeQuietly(db)
		return nil, err
	}
	return s, nil
}

// Open opens an existing index file read-only. Callers must call
// RebuildSecondaryAndFTS (via the builder) before Open will see a usable
// store; Open itself never mutates the file.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &lmerr.CacheNotFoundError{Path: path}
		}
		return nil, lmerr.Database(err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, lmerr.Database(fmt.Errorf("open index read-only: %w", err))
	}

	s := &Store{db: db, path: path, readOnly: true}
	if err := s.verifyIntegrity(); err != nil {
		closeQuietly(db)
		return nil, err
	}
	return s, nil
}

// DB exposes the underlying *sql.DB for the query executor.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applyBulkPragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = OFF",
		"PRAGMA cache_size = -131072", // ~128 MiB, negative = KiB
		"PRAGMA temp_store = MEMORY",
		"PRAGMA mmap_size = 268435456", // 256 MiB
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return lmerr.Database(fmt.Errorf("pragma %q: %w", p, err))
		}
	}
	return nil
}

// restoreNormalSync is called once the bulk load and FTS build are done
// (§4.6 step 6: "restore synchronous = NORMAL").
func (s *Store) restoreNormalSync() error {
	if _, err := s.db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		return lmerr.Database(err)
	}
	return nil
}

func (s *Store) verifyIntegrity() error {
	var result string
	row := s.db.QueryRow("PRAGMA quick_check")
	if err := row.Scan(&result); err != nil {
		return &lmerr.IndexCorruptionError{Message: fmt.Sprintf("quick_check failed: %v", err)}
	}
	if result != "ok" {
		return &lmerr.IndexCorruptionError{Message: "quick_check: " + result}
	}

	var tableName string
	err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'logs'`).Scan(&tableName)
	if err != nil {
		return &lmerr.IndexCorruptionError{Message: "logs table missing"}
	}
	return nil
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		logging.Debug().Err(err).Msg("error closing store connection during setup failure")
	}
}
