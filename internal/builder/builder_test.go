// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package builder

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leaf76/lazy-milktea/internal/cache"
	"github.com/leaf76/lazy-milktea/internal/lmerr"
)

const sampleBugreport = `== dumpstate: 2024-08-24 06:20:00
persist.sys.timezone=America/Los_Angeles
[ro.build.fingerprint]: [google/raven/raven:14/UQ1A.240205.004/11269751:user/release-keys]
[ro.build.version.sdk]: [34]
[ro.build.version.release]: [14]
[ro.product.model]: [Pixel 6 Pro]
[ro.product.brand]: [google]
[ro.build.id]: [UQ1A.240205.004]
--------- beginning of main
08-24 06:22:33.123  1000  1234  5678 I ActivityManager: Start proc 1234 for activity
08-24 06:22:33.456  1000  1234  5678 E ActivityManager: ANR in com.example.app
08-24 06:22:34.001  1000  1234  5678 F AndroidRuntime: FATAL EXCEPTION: main
08-24 06:22:34.500  1000  1234  5678 D MyTag: some debug line
not a logcat line at all
08-24 06:22:35.999  1000  1234  5678 I MyTag: hello world
`

// withHome redirects os.UserHomeDir (via HOME) to a temp directory so
// cache.Locate writes under a throwaway location.
func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	old := os.Getenv("HOME")
	os.Setenv("HOME", home)
	t.Cleanup(func() { os.Setenv("HOME", old) })
	return home
}

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestBuildParsesRowsAndComputesSummary(t *testing.T) {
	withHome(t)
	path := writeSample(t, "bugreport-raven.txt", sampleBugreport)

	b := New()
	result, err := b.Build(path)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if result.IndexSummary.TotalRows != 5 {
		t.Fatalf("TotalRows = %d, want 5", result.IndexSummary.TotalRows)
	}
	if result.IndexSummary.ErrorCount != 1 {
		t.Fatalf("ErrorCount = %d, want 1", result.IndexSummary.ErrorCount)
	}
	if result.IndexSummary.FatalCount != 1 {
		t.Fatalf("FatalCount = %d, want 1", result.IndexSummary.FatalCount)
	}
	if result.IndexSummary.MinTimestamp == nil || result.IndexSummary.MaxTimestamp == nil {
		t.Fatalf("expected non-nil min/max timestamps")
	}
	if *result.IndexSummary.MinTimestamp >= *result.IndexSummary.MaxTimestamp {
		t.Fatalf("min timestamp %d not before max %d", *result.IndexSummary.MinTimestamp, *result.IndexSummary.MaxTimestamp)
	}

	if result.ANRCount != 1 {
		t.Fatalf("ANRCount = %d, want 1", result.ANRCount)
	}
	if result.CrashCount != 1 {
		t.Fatalf("CrashCount = %d, want 1", result.CrashCount)
	}

	if result.Device.Brand != "google" || result.Device.Model != "Pixel 6 Pro" {
		t.Fatalf("unexpected device info: %+v", result.Device)
	}
	if result.Device.APILevel != 34 {
		t.Fatalf("APILevel = %d, want 34", result.Device.APILevel)
	}

	if _, err := os.Stat(cache.StorePath(result.CacheDir)); err != nil {
		t.Fatalf("expected index store at %s: %v", cache.StorePath(result.CacheDir), err)
	}
}

func TestBuildEmitsProgressEventsThroughAllPhases(t *testing.T) {
	withHome(t)
	path := writeSample(t, "bugreport-pixel.txt", sampleBugreport)

	var phases []Phase
	b := New(WithProgress(func(p BuildProgress) {
		phases = append(phases, p.Phase)
	}))

	if _, err := b.Build(path); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(phases) == 0 {
		t.Fatalf("expected at least one progress event")
	}
	last := phases[len(phases)-1]
	if last != PhaseComplete {
		t.Fatalf("last phase = %q, want %q", last, PhaseComplete)
	}

	sawFTS, sawOptimizing := false, false
	for _, p := range phases {
		if p == PhaseBuildingFTS {
			sawFTS = true
		}
		if p == PhaseOptimizing {
			sawOptimizing = true
		}
	}
	if !sawFTS || !sawOptimizing {
		t.Fatalf("missing phase transitions, got %v", phases)
	}
}

func TestBuildWithProgressTrackerPersistsLastEvent(t *testing.T) {
	withHome(t)
	path := writeSample(t, "bugreport-tracker.txt", sampleBugreport)

	tracker := NewInMemoryProgress()
	b := New(WithProgressTracker(tracker))

	if _, err := b.Build(path); err != nil {
		t.Fatalf("Build: %v", err)
	}

	p, ok, err := tracker.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatalf("expected tracker to have a saved progress event")
	}
	if p.Phase != PhaseComplete {
		t.Fatalf("tracked phase = %q, want %q", p.Phase, PhaseComplete)
	}
}

func TestBuildCancelledMidStreamReturnsCancelledError(t *testing.T) {
	withHome(t)

	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, "08-24 06:22:33.123  1234  5678 I MyTag: line")
	}
	path := writeSample(t, "bugreport-cancel.txt", strings.Join(lines, "\n")+"\n")

	b := New()
	b.Cancel()

	_, err := b.Build(path)
	if err == nil {
		t.Fatalf("expected error from a pre-cancelled build")
	}
	if !strings.Contains(err.Error(), "cancelled") && err != lmerr.ErrCancelled {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildDuplicateSuppressionCollapsesRepeatedLines(t *testing.T) {
	withHome(t)

	content := strings.Repeat("08-24 06:22:33.123  1234  5678 I MyTag: repeated line\n", 5) +
		"08-24 06:22:34.123  1234  5678 I MyTag: unique line\n"
	path := writeSample(t, "bugreport-dedup.txt", content)

	b := New(WithDuplicateSuppression(1024))
	result, err := b.Build(path)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.IndexSummary.TotalRows != 2 {
		t.Fatalf("TotalRows = %d, want 2 with duplicate suppression enabled", result.IndexSummary.TotalRows)
	}
}

func writeZipWithBugreport(t *testing.T, zipPath, entryName, content string) {
	t.Helper()
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Create zip: %v", err)
	}
	defer func() { _ = f.Close() }()

	w := zip.NewWriter(f)
	entry, err := w.Create(entryName)
	if err != nil {
		t.Fatalf("zip Create entry: %v", err)
	}
	if _, err := entry.Write([]byte(content)); err != nil {
		t.Fatalf("zip entry Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip Close: %v", err)
	}
}

func TestBuildZipInputExtractsBugreportEntry(t *testing.T) {
	withHome(t)

	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bugreport.zip")
	writeZipWithBugreport(t, zipPath, "bugreport-raven.txt", sampleBugreport)

	b := New()
	result, err := b.Build(zipPath)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.IndexSummary.TotalRows != 5 {
		t.Fatalf("TotalRows = %d, want 5", result.IndexSummary.TotalRows)
	}

	// The extracted temp file must be cleaned up after a successful build.
	entries, err := os.ReadDir(result.CacheDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), "_temp_bugreport") {
			t.Fatalf("temp bugreport %s was not cleaned up", e.Name())
		}
	}
}

func TestBuildWithCacheRootOverridesDefaultLocation(t *testing.T) {
	// No withHome(t): WithCacheRoot must steer Build away from the
	// default "<home>/.lazy_milktea_cache" entirely.
	root := t.TempDir()
	path := writeSample(t, "bugreport-raven.txt", sampleBugreport)

	b := New(WithCacheRoot(root))
	result, err := b.Build(path)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasPrefix(result.CacheDir, root) {
		t.Fatalf("CacheDir = %q, want prefix %q", result.CacheDir, root)
	}
}

func TestBuildWithBatchCommitSizeCommitsMultipleBatches(t *testing.T) {
	withHome(t)
	path := writeSample(t, "bugreport-raven.txt", sampleBugreport)

	// The sample has 5 parseable rows; a commit size of 2 forces three
	// batch commits instead of one, exercising the mid-stream BeginBatch
	// restart without changing the observable result.
	b := New(WithBatchCommitSize(2))
	result, err := b.Build(path)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.IndexSummary.TotalRows != 5 {
		t.Fatalf("TotalRows = %d, want 5", result.IndexSummary.TotalRows)
	}
}
