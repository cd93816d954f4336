// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in
// priority order. The first one found is used.
var DefaultConfigPaths = []string{
	"lazymilktea.yaml",
	"lazymilktea.yml",
	os.ExpandEnv("$HOME/.config/lazymilktea/config.yaml"),
}

// ConfigPathEnvVar overrides config-file discovery with an explicit path.
const ConfigPathEnvVar = "LAZYMILKTEA_CONFIG"

// envPrefix is the prefix stripped from environment variable names before
// they are mapped to koanf paths (LAZYMILKTEA_LOG_LEVEL -> log_level).
const envPrefix = "LAZYMILKTEA_"

// Load reads Config from, in ascending priority: struct defaults, an
// optional YAML file (located via findConfigFile), then environment
// variables prefixed LAZYMILKTEA_. The result is always Normalized.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Config{}.Normalize(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load config defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(key string) string {
		trimmed := strings.TrimPrefix(key, envPrefix)
		return strings.ToLower(trimmed)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file path: the
// LAZYMILKTEA_CONFIG override, else the first of DefaultConfigPaths that
// exists, else "".
func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
