// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package config loads lazy-milktea's host-tunable knobs: the cache
// directory root, the bulk-load batch commit size, and the default
// logger level/format. It is deliberately small -- the tool has no
// server, network, or auth surface to configure.
package config

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Config holds every knob a host may want to override from its default.
// Zero values mean "use the package default"; Normalize fills them in.
type Config struct {
	// CacheRoot overrides the directory under which per-report cache
	// directories are created (§4.8). Empty means
	// "<user home>/.lazy_milktea_cache".
	CacheRoot string `koanf:"cache_root"`

	// BatchCommitSize overrides the number of rows committed per
	// transaction during a bulk build (§4.6, default 50,000).
	BatchCommitSize int `koanf:"batch_commit_size" validate:"min=0"`

	// LogLevel is the default zerolog level: trace, debug, info, warn,
	// error. Default: info.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=trace debug info warn error"`

	// LogFormat is the default log output format: json or console.
	// Default: json.
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=json console"`
}

// DefaultBatchCommitSize matches internal/builder's own constant; kept
// here too so Normalize can report it without importing internal/builder
// (which would create an import cycle, since builder depends on nothing
// in config today but a future knob might need the reverse).
const DefaultBatchCommitSize = 50_000

// Normalize returns a copy of c with every zero-valued field replaced by
// its default.
func (c Config) Normalize() Config {
	if c.BatchCommitSize <= 0 {
		c.BatchCommitSize = DefaultBatchCommitSize
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	return c
}

// Validate checks c against its struct tags (oneof level/format,
// non-negative batch size). Called by Load after Normalize, so a host
// that builds a Config by hand should normalize before validating too.
func (c Config) Validate() error {
	return validate.Struct(c)
}
