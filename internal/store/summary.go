// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package store

import (
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/leaf76/lazy-milktea/internal/lmerr"
	"github.com/leaf76/lazy-milktea/internal/types"
)

const summaryKey = "index_summary"

// SaveSummary persists the IndexSummary computed during the bulk load so a
// host can render overview metrics without re-scanning the store.
func (s *Store) SaveSummary(summary types.IndexSummary) error {
	if s.readOnly {
		return lmerr.Database(fmt.Errorf("store opened read-only"))
	}
	encoded, err := json.Marshal(summary)
	if err != nil {
		return lmerr.Database(fmt.Errorf("encode summary: %w", err))
	}
	_, err = s.db.Exec(
		`INSERT INTO index_summary (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		summaryKey, string(encoded),
	)
	if err != nil {
		return lmerr.Database(fmt.Errorf("save summary: %w", err))
	}
	return nil
}

// LoadSummary returns the persisted IndexSummary.
func (s *Store) LoadSummary() (types.IndexSummary, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM index_summary WHERE key = ?`, summaryKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return types.IndexSummary{}, &lmerr.CacheNotFoundError{Path: "index_summary"}
	}
	if err != nil {
		return types.IndexSummary{}, lmerr.Database(fmt.Errorf("load summary: %w", err))
	}
	var summary types.IndexSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return types.IndexSummary{}, lmerr.Database(fmt.Errorf("decode summary: %w", err))
	}
	return summary, nil
}
