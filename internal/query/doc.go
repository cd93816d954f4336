// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package query implements the Query Executor: cursor-paginated reads
// against a committed Index Store, filter-hash cursor validation, and the
// aggregate queries behind get_stats. See executor.go for the entry
// points and where.go / filterhash.go for the SQL and hashing building
// blocks.
package query
