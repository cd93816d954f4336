// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package timeconv converts threadtime-format timestamps ("MM-DD
// HH:MM:SS.mmm") into sortable, timezone-resolved instants.
package timeconv

import (
	"strconv"
	"strings"
	"time"

	_ "time/tzdata"

	"github.com/leaf76/lazy-milktea/internal/anchor"
	"github.com/leaf76/lazy-milktea/internal/lmerr"
	"github.com/leaf76/lazy-milktea/internal/types"
)

type fields struct {
	mon, day, hour, min, sec, ms int
}

func parseThreadtime(ts string) (fields, error) {
	var f fields

	md, rest, ok := cut(ts, ' ')
	if !ok {
		return f, &lmerr.TimeConversionError{Input: ts, Reason: "missing space separator"}
	}
	monS, dayS, ok := cut(md, '-')
	if !ok {
		return f, &lmerr.TimeConversionError{Input: ts, Reason: "invalid month-day format"}
	}
	hms, msS, ok := cut(rest, '.')
	if !ok {
		return f, &lmerr.TimeConversionError{Input: ts, Reason: "missing milliseconds"}
	}

	parts := strings.Split(hms, ":")
	if len(parts) != 3 {
		return f, &lmerr.TimeConversionError{Input: ts, Reason: "invalid time"}
	}

	var err error
	if f.mon, err = strconv.Atoi(monS); err != nil {
		return f, &lmerr.TimeConversionError{Input: ts, Reason: "invalid month"}
	}
	if f.day, err = strconv.Atoi(dayS); err != nil {
		return f, &lmerr.TimeConversionError{Input: ts, Reason: "invalid day"}
	}
	if f.hour, err = strconv.Atoi(parts[0]); err != nil {
		return f, &lmerr.TimeConversionError{Input: ts, Reason: "invalid hour"}
	}
	if f.min, err = strconv.Atoi(parts[1]); err != nil {
		return f, &lmerr.TimeConversionError{Input: ts, Reason: "invalid minute"}
	}
	if f.sec, err = strconv.Atoi(parts[2]); err != nil {
		return f, &lmerr.TimeConversionError{Input: ts, Reason: "invalid second"}
	}

	msDigits := takeDigits(msS)
	if msDigits == "" {
		return f, &lmerr.TimeConversionError{Input: ts, Reason: "invalid milliseconds"}
	}
	if f.ms, err = strconv.Atoi(msDigits); err != nil {
		return f, &lmerr.TimeConversionError{Input: ts, Reason: "invalid milliseconds"}
	}

	return f, nil
}

func cut(s string, sep byte) (before, after string, ok bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

func takeDigits(s string) string {
	for i, r := range s {
		if r < '0' || r > '9' {
			return s[:i]
		}
	}
	return s
}

// ToISOSafe converts a threadtime timestamp to an RFC3339 UTC string and a
// millisecond Unix key, resolving DST edges against the anchor's timezone.
// Ambiguous local times (fall-back overlap) resolve to the earlier instant;
// non-existent local times (spring-forward gap) retry one hour later and
// fail if still non-existent.
func ToISOSafe(tsThreadtime string, a types.TimeAnchor) (tsISO string, tsUnixMs int64, err error) {
	f, err := parseThreadtime(tsThreadtime)
	if err != nil {
		return "", 0, err
	}

	loc, err := time.LoadLocation(a.TZ)
	if err != nil {
		loc = time.UTC
	}

	reference := referenceDate(a)
	year := anchor.InferYear(f.mon, f.day, reference)

	if !validCalendarDate(year, f.mon, f.day) {
		return "", 0, &lmerr.TimeConversionError{
			Input:  tsThreadtime,
			Reason: "invalid date",
		}
	}

	resolved, ok := resolveLocal(year, f.mon, f.day, f.hour, f.min, f.sec, f.ms, loc)
	if !ok {
		return "", 0, &lmerr.TimeConversionError{
			Input:  tsThreadtime,
			Reason: "DST gap in timezone " + a.TZ,
		}
	}

	utc := resolved.UTC()
	return utc.Format(time.RFC3339Nano), utc.UnixMilli(), nil
}

func referenceDate(a types.TimeAnchor) time.Time {
	if a.ReportDate != nil {
		return time.Date(a.ReportDate.Year, time.Month(a.ReportDate.Month), a.ReportDate.Day, 0, 0, 0, 0, time.UTC)
	}
	return time.Now().UTC()
}

func validCalendarDate(y, m, d int) bool {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && int(t.Month()) == m && t.Day() == d
}

// resolveLocal maps a naive (wall-clock) local datetime onto a concrete
// instant in loc, handling the gap and overlap cases that time.Date alone
// does not surface: time.Date never errors, it silently normalizes a
// nonexistent wall time forward and silently picks one side of an
// ambiguous wall time. We detect both by comparing the normalized fields
// against the input, and by probing the zone offset a few hours either
// side for an overlap.
func resolveLocal(year, month, day, hour, min, sec, ms int, loc *time.Location) (time.Time, bool) {
	ns := ms * int(time.Millisecond)
	candidate := time.Date(year, time.Month(month), day, hour, min, sec, ns, loc)

	if candidate.Year() != year || int(candidate.Month()) != month || candidate.Day() != day ||
		candidate.Hour() != hour || candidate.Minute() != min || candidate.Second() != sec {
		// Nonexistent local time (DST spring-forward gap): retry one hour
		// later, exactly once. The shift is pure calendar arithmetic (done
		// in UTC to avoid re-triggering the same zone lookup), not a
		// re-interpretation in loc.
		wallAsUTC := time.Date(year, time.Month(month), day, hour, min, sec, ns, time.UTC)
		shifted := wallAsUTC.Add(time.Hour)
		retryCandidate := time.Date(shifted.Year(), shifted.Month(), shifted.Day(), shifted.Hour(), shifted.Minute(), shifted.Second(), ns, loc)
		if retryCandidate.Year() == shifted.Year() && retryCandidate.Month() == shifted.Month() &&
			retryCandidate.Day() == shifted.Day() && retryCandidate.Hour() == shifted.Hour() &&
			retryCandidate.Minute() == shifted.Minute() {
			return retryCandidate, true
		}
		return time.Time{}, false
	}

	// Unique or ambiguous: probe a few hours either side for a zone
	// transition near this instant.
	_, candidateOffset := candidate.Zone()
	before := candidate.Add(-3 * time.Hour)
	after := candidate.Add(3 * time.Hour)
	_, beforeOffset := before.Zone()
	_, afterOffset := after.Zone()

	if beforeOffset == candidateOffset && afterOffset == candidateOffset {
		// No nearby transition: unambiguous.
		return candidate, true
	}

	// Near a transition. Build the two candidate instants directly from the
	// wall clock under each offset and see whether both land back on the
	// same wall clock in loc -- if so, this wall time is genuinely
	// ambiguous and we keep the earlier of the two.
	wallAsUTC := time.Date(year, time.Month(month), day, hour, min, sec, ns, time.UTC)
	candidates := make([]time.Time, 0, 2)
	for _, off := range dedupOffsets(beforeOffset, afterOffset, candidateOffset) {
		instant := wallAsUTC.Add(-time.Duration(off) * time.Second)
		inLoc := instant.In(loc)
		if inLoc.Year() == year && int(inLoc.Month()) == month && inLoc.Day() == day &&
			inLoc.Hour() == hour && inLoc.Minute() == min && inLoc.Second() == sec {
			candidates = append(candidates, instant)
		}
	}

	if len(candidates) == 0 {
		return candidate, true
	}
	earliest := candidates[0]
	for _, c := range candidates[1:] {
		if c.Before(earliest) {
			earliest = c
		}
	}
	return earliest, true
}

func dedupOffsets(offs ...int) []int {
	seen := make(map[int]bool, len(offs))
	out := make([]int, 0, len(offs))
	for _, o := range offs {
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}

// ThreadtimeTSKey computes a sortable-only key directly from a threadtime
// string, without DST or year logic. It is used only as a filter-range
// comparator inside the store when no anchor is available.
func ThreadtimeTSKey(s string) (int64, error) {
	f, err := parseThreadtime(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	key := int64((((f.mon*32+f.day)*24+f.hour)*60+f.min)*60*1000 + f.sec*1000 + f.ms)
	return key, nil
}

// dateTimeLocalLayouts mirrors the shapes accepted by an HTML
// datetime-local input.
var dateTimeLocalLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
}

// ISOTSKeyMs parses either an RFC3339 instant or a datetime-local form as
// UTC. Naive forms are treated as UTC to match how ts_unix_ms is stored
// (device local time already resolved to UTC by ToISOSafe); there is no
// host-timezone drift introduced at query time.
func ISOTSKeyMs(s string) (int64, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UnixMilli(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UnixMilli(), nil
	}
	for _, layout := range dateTimeLocalLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, &lmerr.TimeConversionError{Input: s, Reason: "invalid datetime format"}
}
