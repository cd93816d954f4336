// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitEmitsStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})

	Info().Int64("rows", 50000).Msg("bulk load committed")

	out := buf.String()
	if !strings.Contains(out, `"rows":50000`) {
		t.Errorf("missing structured field: %s", out)
	}
	if !strings.Contains(out, `"level":"info"`) || !strings.Contains(out, "bulk load committed") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestInitConsoleFormatStaysHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})

	Info().Msg("anchor derived")

	out := buf.String()
	if !strings.Contains(out, "anchor derived") {
		t.Errorf("message lost in console format: %s", out)
	}
	if strings.Contains(out, `"message"`) {
		t.Errorf("console format emitted JSON: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})

	Debug().Msg("skipped line detail")
	Info().Msg("progress")
	Warn().Msg("temp bugreport not removed")

	out := buf.String()
	if strings.Contains(out, "skipped line detail") || strings.Contains(out, "progress") {
		t.Errorf("sub-warn output leaked: %s", out)
	}
	if !strings.Contains(out, "temp bugreport not removed") {
		t.Errorf("warn output missing: %s", out)
	}
}

func TestErrCarriesErrorField(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})

	Err(errors.New("disk full")).Msg("build failed")
	Error().Str("path", "/tmp/x").Msg("store unreadable")

	out := buf.String()
	if !strings.Contains(out, `"error":"disk full"`) {
		t.Errorf("error field missing: %s", out)
	}
	if !strings.Contains(out, `"level":"error"`) {
		t.Errorf("level missing: %s", out)
	}
}

func TestSetLevelStringOverride(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})

	SetLevelString("debug")
	Debug().Msg("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("debug suppressed after override: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":     zerolog.TraceLevel,
		"debug":     zerolog.DebugLevel,
		"info":      zerolog.InfoLevel,
		"warn":      zerolog.WarnLevel,
		"warning":   zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"disabled":  zerolog.Disabled,
		"":          zerolog.InfoLevel,
		"gibberish": zerolog.InfoLevel,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
