// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package cache resolves an input report path to its per-report cache
// directory (Locate, ExtractBugreport, IsZip) and provides the small
// in-process structures the query executor and streaming index builder
// lean on: a frequency-aware page cache for repeated pagination, a
// bounded duplicate-line window for the builder's opt-in suppression, a
// Fenwick tree backing cursor position estimates, and the plain-mode text
// predicate matcher. None of these touch SQLite; internal/query and
// internal/builder own the database handle.
package cache
