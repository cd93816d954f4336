// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package anchor derives the (timezone, reference year, report date) triple
// that grounds the year-less, timezone-less timestamps found in a logcat
// threadtime stream.
package anchor

import (
	"regexp"
	"strconv"
	"time"

	_ "time/tzdata"

	"github.com/leaf76/lazy-milktea/internal/types"
)

var (
	tzRE        = regexp.MustCompile(`(?m)^\s*persist\.sys\.timezone\s*=\s*(\S+)\s*$`)
	dumpstateRE = regexp.MustCompile(`dumpstate:\s*(\d{4})-(\d{2})-(\d{2})`)
	buildDateRE = regexp.MustCompile(`(\d{2})(\d{2})(\d{2})\.(\d{3})`)
)

// Derive extracts a TimeAnchor from a bugreport text sample. The timezone
// defaults to UTC when no persist.sys.timezone line is present anywhere in
// the sample; the sample is a best-effort prefix read, not a guaranteed
// full-file scan (see the streaming builder's 256 KiB cap).
func Derive(text string) types.TimeAnchor {
	tz := extractTimezone(text)
	reportDate := extractReportDate(text)

	year := time.Now().Year()
	if reportDate != nil {
		year = reportDate.Year
	}

	return types.TimeAnchor{
		TZ:         tz,
		Year:       year,
		ReportDate: reportDate,
	}
}

func extractTimezone(text string) string {
	m := tzRE.FindStringSubmatch(text)
	if m == nil {
		return "UTC"
	}
	if _, err := time.LoadLocation(m[1]); err != nil {
		return "UTC"
	}
	return m[1]
}

func extractReportDate(text string) *types.ReportDate {
	if m := dumpstateRE.FindStringSubmatch(text); m != nil {
		y, err1 := strconv.Atoi(m[1])
		mo, err2 := strconv.Atoi(m[2])
		d, err3 := strconv.Atoi(m[3])
		if err1 == nil && err2 == nil && err3 == nil && validDate(y, mo, d) {
			return &types.ReportDate{Year: y, Month: mo, Day: d}
		}
	}

	// Build fingerprint date, e.g. "TQ3A.230605.012" -> 2023-06-05.
	if m := buildDateRE.FindStringSubmatch(text); m != nil {
		yy, err1 := strconv.Atoi(m[1])
		mo, err2 := strconv.Atoi(m[2])
		d, err3 := strconv.Atoi(m[3])
		if err1 == nil && err2 == nil && err3 == nil {
			y := 2000 + yy
			if validDate(y, mo, d) {
				return &types.ReportDate{Year: y, Month: mo, Day: d}
			}
		}
	}

	return nil
}

func validDate(y, m, d int) bool {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && int(t.Month()) == m && t.Day() == d
}

// InferYear picks the year in {refYear-1, refYear, refYear+1} that, paired
// with (month, day), forms a valid calendar date closest to reference. This
// lets a bulk load whose log window crosses a year boundary (e.g. a
// December-to-January report sampled in early January) still resolve each
// line to the right year.
func InferYear(month, day int, reference time.Time) int {
	refYear := reference.Year()
	best := refYear
	bestDist := -1

	for _, y := range []int{refYear, refYear - 1, refYear + 1} {
		if !validDate(y, month, day) {
			continue
		}
		candidate := time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		dist := int(candidate.Sub(reference).Hours() / 24)
		if dist < 0 {
			dist = -dist
		}
		if bestDist == -1 || dist < bestDist {
			bestDist = dist
			best = y
		}
	}

	return best
}
