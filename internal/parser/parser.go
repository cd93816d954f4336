// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package parser recognizes Android logcat threadtime-format lines,
// accepting both the classic pid/tid column shape and the variant with an
// optional leading uid column.
package parser

import (
	"regexp"
	"strconv"

	"github.com/leaf76/lazy-milktea/internal/types"
)

// logcatRE matches one threadtime-format line, anchored both ends, with an
// optional uid column ahead of pid/tid (the uid token may be numeric or
// textual, e.g. "1000", "wifi", "root" -- it is captured but not reported,
// since pid and tid remain the rightmost two digit columns before level
// regardless of whether uid is present).
var logcatRE = regexp.MustCompile(
	`^(?P<date>\d{2}-\d{2})\s+(?P<time>\d{2}:\d{2}:\d{2}\.\d{3})\s+(?:(?P<uid>\S+)\s+)??(?P<pid>\d+)\s+(?P<tid>\d+)\s+(?P<level>[VDIWEF])\s+(?P<tag>[^:]+):\s(?P<msg>.*)$`,
)

var fieldIndex = func() map[string]int {
	m := make(map[string]int)
	for i, name := range logcatRE.SubexpNames() {
		if name != "" {
			m[name] = i
		}
	}
	return m
}()

// ParsedLine is one recognized logcat line, prior to timestamp conversion.
type ParsedLine struct {
	TsDisplay string
	Level     string
	Tag       string
	PID       int32
	TID       int32
	Msg       string
}

// ParseLine recognizes one logical log line against the threadtime
// grammar. Lines that do not match are reported via ok == false and must
// be skipped silently by the caller.
func ParseLine(line string) (ParsedLine, bool) {
	m := logcatRE.FindStringSubmatch(line)
	if m == nil {
		return ParsedLine{}, false
	}

	get := func(name string) string {
		return m[fieldIndex[name]]
	}

	pid, _ := strconv.ParseInt(get("pid"), 10, 32)
	tid, _ := strconv.ParseInt(get("tid"), 10, 32)

	return ParsedLine{
		TsDisplay: get("date") + " " + get("time"),
		Level:     get("level"),
		Tag:       get("tag"),
		PID:       int32(pid),
		TID:       int32(tid),
		Msg:       get("msg"),
	}, true
}

// IsLogcatLine reports whether line matches the threadtime grammar, without
// extracting fields.
func IsLogcatLine(line string) bool {
	return logcatRE.MatchString(line)
}

// ToLogRow fills in the fields ParseLine does not know (id, converted
// timestamp) to produce a complete LogRow. Callers typically call this
// after running the timestamp converter over p.TsDisplay.
func (p ParsedLine) ToLogRow(id int64, tsUnixMs float64, tsISO string) types.LogRow {
	return types.LogRow{
		ID:        id,
		TsDisplay: p.TsDisplay,
		TsUnixMs:  tsUnixMs,
		TsISO:     tsISO,
		Level:     p.Level,
		Tag:       p.Tag,
		PID:       p.PID,
		TID:       p.TID,
		Msg:       p.Msg,
	}
}
