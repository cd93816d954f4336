// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package builder

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// progressKey is the BadgerDB key under which the last-persisted build
// progress lives. One key is enough: a host tracks one build at a time
// per cache directory, and a fresh Builder.Build call overwrites it.
const progressKey = "build:progress"

// ProgressTracker persists the most recently emitted BuildProgress so a
// host can recover it across a process restart. It does not let a
// Builder resume a partial build (§5: a cancelled or crashed build's
// store is discarded, not resumed) -- it exists purely for host-side
// polling/visibility.
type ProgressTracker interface {
	// Save persists the given progress, replacing whatever was saved
	// before.
	Save(p BuildProgress) error

	// Load retrieves the last saved progress. Returns ok == false if
	// nothing has been saved yet.
	Load() (p BuildProgress, ok bool, err error)

	// Clear removes any saved progress, e.g. once a build completes.
	Clear() error
}

// BadgerProgress implements ProgressTracker on top of a BadgerDB handle,
// mirroring the teacher's import-progress tracker.
type BadgerProgress struct {
	db *badger.DB
}

// NewBadgerProgress wraps an already-open BadgerDB instance.
func NewBadgerProgress(db *badger.DB) *BadgerProgress {
	return &BadgerProgress{db: db}
}

// Save persists p to BadgerDB as JSON.
func (t *BadgerProgress) Save(p BuildProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal build progress: %w", err)
	}
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(progressKey), data)
	})
}

// Load retrieves the last saved progress.
func (t *BadgerProgress) Load() (BuildProgress, bool, error) {
	var p BuildProgress
	var found bool

	err := t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(progressKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return BuildProgress{}, false, fmt.Errorf("load build progress: %w", err)
	}
	return p, found, nil
}

// Clear removes the persisted progress.
func (t *BadgerProgress) Clear() error {
	return t.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(progressKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// InMemoryProgress implements ProgressTracker without any persistence,
// for single-shot CLI use where a restart means starting over anyway.
type InMemoryProgress struct {
	progress BuildProgress
	saved    bool
}

// NewInMemoryProgress creates an in-memory progress tracker.
func NewInMemoryProgress() *InMemoryProgress {
	return &InMemoryProgress{}
}

func (t *InMemoryProgress) Save(p BuildProgress) error {
	t.progress = p
	t.saved = true
	return nil
}

func (t *InMemoryProgress) Load() (BuildProgress, bool, error) {
	return t.progress, t.saved, nil
}

func (t *InMemoryProgress) Clear() error {
	t.progress = BuildProgress{}
	t.saved = false
	return nil
}
