// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package lazymilktea

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leaf76/lazy-milktea/internal/builder"
	"github.com/leaf76/lazy-milktea/internal/cache"
)

const sampleBugreport = `== dumpstate: 2024-08-24 06:20:00
persist.sys.timezone=UTC
[ro.product.brand]: [google]
[ro.product.model]: [Pixel 6 Pro]
--------- beginning of main
08-24 06:22:33.123  1234  5678 I ActivityManager: Start proc
08-24 06:22:33.456  1234  5678 E ActivityManager: ANR in com.example.app
08-24 06:22:34.500  1234  5678 D MyTag: debug line
08-24 06:22:35.999  1234  5678 I MyTag: hello world
`

func withHome(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	old := os.Getenv("HOME")
	os.Setenv("HOME", home)
	t.Cleanup(func() { os.Setenv("HOME", old) })
}

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "bugreport-facade.txt")
	if err := os.WriteFile(path, []byte(sampleBugreport), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestParseThenQueryRoundTrip(t *testing.T) {
	withHome(t)
	path := writeSample(t)
	ctx := context.Background()

	result, err := Parse(ctx, path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.IndexSummary.TotalRows != 4 {
		t.Fatalf("TotalRows = %d, want 4", result.IndexSummary.TotalRows)
	}

	dbPath := cache.StorePath(result.CacheDir)
	resp, err := Query(ctx, dbPath, LogFilters{}, nil, 10, Forward)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(resp.Rows) != 4 {
		t.Fatalf("len(Rows) = %d, want 4", len(resp.Rows))
	}
}

func TestParseStreamingForwardsProgress(t *testing.T) {
	withHome(t)
	path := writeSample(t)
	ctx := context.Background()

	progress := make(chan BuildProgress, 16)
	result, err := ParseStreaming(ctx, path, progress)
	if err != nil {
		t.Fatalf("ParseStreaming: %v", err)
	}
	close(progress)

	var last BuildProgress
	count := 0
	for p := range progress {
		last = p
		count++
	}
	if count == 0 {
		t.Fatalf("expected at least one progress event")
	}
	if last.Phase != builder.PhaseComplete {
		t.Fatalf("last phase = %q, want complete", last.Phase)
	}
	if result.IndexSummary.TotalRows != 4 {
		t.Fatalf("TotalRows = %d, want 4", result.IndexSummary.TotalRows)
	}
}

func TestGetStatsAndJumpToTime(t *testing.T) {
	withHome(t)
	path := writeSample(t)
	ctx := context.Background()

	result, err := Parse(ctx, path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dbPath := cache.StorePath(result.CacheDir)

	stats, err := GetStats(ctx, dbPath, LogFilters{})
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalRows != 4 {
		t.Fatalf("TotalRows = %d, want 4", stats.TotalRows)
	}

	resp, err := JumpToTime(ctx, dbPath, LogFilters{}, "2024-08-24T06:22:34Z", 10)
	if err != nil {
		t.Fatalf("JumpToTime: %v", err)
	}
	if len(resp.Rows) == 0 {
		t.Fatalf("expected at least one row at or after the jump target")
	}
}

func TestQueryMissingStoreReturnsError(t *testing.T) {
	withHome(t)
	ctx := context.Background()
	_, err := Query(ctx, filepath.Join(t.TempDir(), "missing.db"), LogFilters{}, nil, 10, Forward)
	if err == nil {
		t.Fatalf("expected error querying a nonexistent store")
	}
}
