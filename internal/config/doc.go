// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package config loads lazy-milktea's tunable knobs from, in ascending
// priority: struct defaults, an optional YAML file, and environment
// variables prefixed LAZYMILKTEA_ (e.g. LAZYMILKTEA_LOG_LEVEL=debug).
// Load validates the result against Config's struct tags before
// returning it, so a typo'd log level or format fails fast at startup.
//
//	cfg, err := config.Load()
//	logging.SetLevelString(cfg.LogLevel)
package config
