// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package anchor

import (
	"testing"
	"time"
)

func TestDeriveTimezoneFromPersistProperty(t *testing.T) {
	a := Derive("some header\npersist.sys.timezone=Asia/Taipei\nmore text\n")
	if a.TZ != "Asia/Taipei" {
		t.Errorf("TZ = %q, want Asia/Taipei", a.TZ)
	}
}

func TestDeriveTimezoneFallsBackToUTC(t *testing.T) {
	cases := map[string]string{
		"no timezone line":  "08-24 14:22:33.123  1234  5678 I MyTag: hello\n",
		"unknown zone name": "persist.sys.timezone=Mars/Olympus_Mons\n",
	}
	for name, text := range cases {
		if a := Derive(text); a.TZ != "UTC" {
			t.Errorf("%s: TZ = %q, want UTC", name, a.TZ)
		}
	}
}

func TestDeriveReportDateFromDumpstate(t *testing.T) {
	a := Derive("== dumpstate: 2024-08-24 06:20:00\n")
	if a.ReportDate == nil {
		t.Fatal("expected a report date")
	}
	if a.ReportDate.Year != 2024 || a.ReportDate.Month != 8 || a.ReportDate.Day != 24 {
		t.Errorf("ReportDate = %+v", a.ReportDate)
	}
	if a.Year != 2024 {
		t.Errorf("Year = %d, want 2024", a.Year)
	}
}

func TestDeriveReportDateFromBuildFingerprint(t *testing.T) {
	a := Derive("[ro.build.id]: [UQ1A.240205.004]\n")
	if a.ReportDate == nil {
		t.Fatal("expected a report date from the fingerprint")
	}
	if a.ReportDate.Year != 2024 || a.ReportDate.Month != 2 || a.ReportDate.Day != 5 {
		t.Errorf("ReportDate = %+v", a.ReportDate)
	}
}

func TestDeriveDumpstateWinsOverFingerprint(t *testing.T) {
	a := Derive("== dumpstate: 2024-08-24 06:20:00\n[ro.build.id]: [UQ1A.230605.012]\n")
	if a.ReportDate == nil || a.ReportDate.Month != 8 {
		t.Errorf("expected the dumpstate date to take priority, got %+v", a.ReportDate)
	}
}

func TestDeriveNoDateFallsBackToHostYear(t *testing.T) {
	a := Derive("no dates anywhere in this text")
	if a.ReportDate != nil {
		t.Errorf("expected nil report date, got %+v", a.ReportDate)
	}
	if a.Year != time.Now().Year() {
		t.Errorf("Year = %d, want host year %d", a.Year, time.Now().Year())
	}
}

func TestInferYearSameYear(t *testing.T) {
	ref := time.Date(2024, 8, 24, 0, 0, 0, 0, time.UTC)
	if y := InferYear(8, 20, ref); y != 2024 {
		t.Errorf("InferYear(8, 20) = %d, want 2024", y)
	}
}

func TestInferYearAcrossYearBoundary(t *testing.T) {
	// A report dated early January whose log window started in late
	// December belongs to the previous year.
	ref := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if y := InferYear(12, 31, ref); y != 2023 {
		t.Errorf("InferYear(12, 31) = %d, want 2023", y)
	}
	if y := InferYear(1, 1, ref); y != 2024 {
		t.Errorf("InferYear(1, 1) = %d, want 2024", y)
	}

	// And the mirror image: a late-December report with a January line.
	ref = time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC)
	if y := InferYear(1, 2, ref); y != 2024 {
		t.Errorf("InferYear(1, 2) = %d, want 2024", y)
	}
}

func TestInferYearSkipsInvalidLeapDate(t *testing.T) {
	// Feb 29 does not exist in 2023; the only valid candidate in
	// {2022, 2023, 2024} closest to the reference is 2024.
	ref := time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)
	if y := InferYear(2, 29, ref); y != 2024 {
		t.Errorf("InferYear(2, 29) = %d, want 2024", y)
	}
}
