// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/leaf76/lazy-milktea/internal/types"
)

// filterFlags holds the LogFilters flag values shared by query and jump.
type filterFlags struct {
	tsFrom        string
	tsTo          string
	levels        []string
	tag           string
	pid           int32
	tid           int32
	text          string
	notText       string
	textMode      string
	caseSensitive bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.tsFrom, "from", "", "include rows at or after this ISO timestamp")
	cmd.Flags().StringVar(&f.tsTo, "to", "", "include rows at or before this ISO timestamp")
	cmd.Flags().StringSliceVar(&f.levels, "level", nil, "log levels to include (V,D,I,W,E,F), repeatable")
	cmd.Flags().StringVar(&f.tag, "tag", "", "substring match against the log tag")
	cmd.Flags().Int32Var(&f.pid, "pid", 0, "filter by process id")
	cmd.Flags().Int32Var(&f.tid, "tid", 0, "filter by thread id")
	cmd.Flags().StringVar(&f.text, "text", "", "include rows whose message matches this predicate")
	cmd.Flags().StringVar(&f.notText, "not-text", "", "exclude rows whose message matches this predicate")
	cmd.Flags().StringVar(&f.textMode, "text-mode", "plain", "text predicate mode: plain or regex")
	cmd.Flags().BoolVar(&f.caseSensitive, "case-sensitive", false, "make text predicates case-sensitive")
}

func (f *filterFlags) toLogFilters() types.LogFilters {
	mode := types.TextModePlain
	if f.textMode == "regex" {
		mode = types.TextModeRegex
	}
	return types.LogFilters{
		TsFrom:        f.tsFrom,
		TsTo:          f.tsTo,
		Levels:        f.levels,
		Tag:           f.tag,
		Pid:           f.pid,
		Tid:           f.tid,
		Text:          f.text,
		NotText:       f.notText,
		TextMode:      mode,
		CaseSensitive: f.caseSensitive,
	}
}

// cursorWire is the JSON wire form of a QueryCursor (§6): {"position",
// "direction", "filterHash"}.
type cursorWire struct {
	Position   int64           `json:"position"`
	Direction  types.Direction `json:"direction"`
	FilterHash uint64          `json:"filterHash"`
}

// parseCursorFlag decodes the --cursor flag's JSON payload into a
// QueryCursor, or returns nil if the flag was left empty.
func parseCursorFlag(raw string) (*types.QueryCursor, error) {
	if raw == "" {
		return nil, nil
	}
	var w cursorWire
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, fmt.Errorf("invalid --cursor JSON: %w", err)
	}
	return &types.QueryCursor{Position: w.Position, Direction: w.Direction, FilterHash: w.FilterHash}, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(cmdOut())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
