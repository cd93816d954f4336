// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package builder implements the Streaming Index Builder (§4.6): it reads
// an input artifact once as a line stream, derives the Time Anchor from a
// bounded prefix sample, converts and inserts every recognized logcat line
// into the Index Store in batched transactions, and defers secondary-index
// and full-text construction until the bulk load is done.
package builder

import (
	"bufio"
	"errors"
	"io"
	"os"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/leaf76/lazy-milktea/internal/anchor"
	"github.com/leaf76/lazy-milktea/internal/cache"
	"github.com/leaf76/lazy-milktea/internal/device"
	"github.com/leaf76/lazy-milktea/internal/lmerr"
	"github.com/leaf76/lazy-milktea/internal/logging"
	"github.com/leaf76/lazy-milktea/internal/metrics"
	"github.com/leaf76/lazy-milktea/internal/parser"
	"github.com/leaf76/lazy-milktea/internal/store"
	"github.com/leaf76/lazy-milktea/internal/timeconv"
	"github.com/leaf76/lazy-milktea/internal/types"
)

// batchCommitSize is the number of rows per transaction (§5 Memory bounds).
const batchCommitSize = 50_000

// readBufferSize is the line-scanner buffer (§5 Memory bounds: "64 KiB
// buffer").
const readBufferSize = 64 * 1024

// maxLineSize bounds a single logical line; bugreport sections can embed
// very long single-line dumps (stack traces, binary-as-text blobs) that
// would otherwise force the scanner's internal buffer to grow unbounded.
const maxLineSize = 1024 * 1024

// anchorSampleSize is the prefix read for Time Anchor resolution (§5
// Memory bounds: "Pre-anchor sample is capped at 256 KiB").
const anchorSampleSize = 256 * 1024

// anrPattern and the crash patterns below are grounded on the original
// device-info extractor's event counters (ANR and tombstone/FATAL
// EXCEPTION markers), folded into the single streaming pass instead of a
// second full-content scan so device counts cost nothing extra.
var (
	anrPattern   = regexp.MustCompile(`(?i)\bANR in\b`)
	fatalPattern = regexp.MustCompile(`(?i)FATAL EXCEPTION`)
	tombPattern  = regexp.MustCompile(`(?i)\btombstone\b`)
)

// Phase names one stage of a build, for the progress event payload (§6).
type Phase string

const (
	PhaseParsing     Phase = "parsing"
	PhaseBuildingFTS Phase = "building_fts"
	PhaseOptimizing  Phase = "optimizing"
	PhaseComplete    Phase = "complete"
)

// BuildProgress is one progress event (§6): bytes_read, total_bytes,
// rows_processed, phase, and percent = bytes_read/total_bytes * 100.
type BuildProgress struct {
	BytesRead     int64
	TotalBytes    int64
	RowsProcessed int64
	Phase         Phase
}

// Percent computes bytes_read/total_bytes * 100, or 0 when TotalBytes is
// unknown.
func (p BuildProgress) Percent() float64 {
	if p.TotalBytes <= 0 {
		return 0
	}
	return float64(p.BytesRead) / float64(p.TotalBytes) * 100
}

// ProgressFunc receives one BuildProgress event per batch-commit boundary. It
// is invoked from the builder's own goroutine and must not block (§5).
type ProgressFunc func(BuildProgress)

// Builder drives the streaming build of one Index Store. A Builder is not
// reusable across Build calls that race each other; the scheduling model
// (§5) assumes one worker thread owns a build from start to finish.
type Builder struct {
	progressCB      ProgressFunc
	tracker         ProgressTracker
	dedup           *cache.DedupWindow
	batchCommitSize int
	cacheRoot       string
	cancelled       atomic.Bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithProgress registers a callback invoked at each batch-commit boundary
// and at each phase transition.
func WithProgress(cb ProgressFunc) Option {
	return func(b *Builder) { b.progressCB = cb }
}

// WithDuplicateSuppression enables exact-duplicate-line suppression
// during the build, remembering the last capacity distinct lines. It is
// off by default and only meant for hosts that explicitly want
// overlapping bugreport sections (main/system/radio logs often repeat
// identical lines) collapsed to one row.
func WithDuplicateSuppression(capacity int) Option {
	return func(b *Builder) { b.dedup = cache.NewDedupWindow(capacity) }
}

// WithProgressTracker registers a ProgressTracker that persists every
// emitted BuildProgress, so a host process can poll or recover the
// last-known progress of a build across a restart (§4.6 DOMAIN:
// resumable progress persistence). The Builder itself never resumes a
// partial build from persisted progress -- a killed build's Index Store
// is left in a discardable state per §5 and must be re-built from
// scratch; the tracker exists for host-side visibility, not builder-side
// resumption.
func WithProgressTracker(t ProgressTracker) Option {
	return func(b *Builder) { b.tracker = t }
}

// WithCacheRoot overrides the directory under which Build creates its
// per-report cache directory (§4.8), in place of the package default
// "<home>/.lazy_milktea_cache". An empty string is ignored.
func WithCacheRoot(root string) Option {
	return func(b *Builder) {
		if root != "" {
			b.cacheRoot = root
		}
	}
}

// WithBatchCommitSize overrides the number of rows committed per
// transaction during the bulk load (§5 Memory bounds: "up to 50,000").
// A value <= 0 is ignored and the package default is kept.
func WithBatchCommitSize(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.batchCommitSize = n
		}
	}
}

// New creates a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{batchCommitSize: batchCommitSize}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Cancel sets the cooperative cancellation flag (§5: "a shared atomic
// flag rather than thread interruption"). Safe to call from any
// goroutine; checked once per parsed line.
func (b *Builder) Cancel() {
	b.cancelled.Store(true)
}

func (b *Builder) emit(p BuildProgress) {
	if b.progressCB != nil {
		b.progressCB(p)
	}
	if b.tracker != nil {
		if err := b.tracker.Save(p); err != nil {
			logging.Warn().Err(err).Msg("failed to persist build progress")
		}
	}
}

// Build runs the full control flow of §2's "top-level parse call": locate
// the cache directory, transparently extract a ZIP's chosen entry,
// sample the prefix for the Time Anchor and device info, then stream the
// whole artifact into a freshly created Index Store.
func (b *Builder) Build(inputPath string) (result types.ParseResult, err error) {
	start := time.Now()
	defer func() {
		outcome := "complete"
		switch {
		case err == nil:
		case errors.Is(err, lmerr.ErrCancelled):
			outcome = "cancelled"
		default:
			outcome = "error"
		}
		metrics.ObserveBuild(outcome, time.Since(start))
	}()

	var cacheDir string
	if b.cacheRoot != "" {
		cacheDir, err = cache.LocateUnder(b.cacheRoot, inputPath)
	} else {
		cacheDir, err = cache.Locate(inputPath)
	}
	if err != nil {
		return types.ParseResult{}, err
	}

	sourcePath := inputPath
	extractedTemp := false
	if cache.IsZip(inputPath) {
		tmp, err := cache.ExtractBugreport(inputPath, cacheDir)
		if err != nil {
			return types.ParseResult{}, err
		}
		sourcePath = tmp
		extractedTemp = true
	}

	result, err = b.buildFromFile(sourcePath, cacheDir)
	if err != nil {
		return types.ParseResult{}, err
	}

	// §4.8: the temp bugreport extracted from a ZIP is deleted only once
	// the build over it has succeeded.
	if extractedTemp {
		if rmErr := os.Remove(sourcePath); rmErr != nil {
			logging.Warn().Err(rmErr).Str("path", sourcePath).Msg("failed to remove temp bugreport after successful build")
		}
	}

	return result, nil
}

func (b *Builder) buildFromFile(path, cacheDir string) (types.ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.ParseResult{}, lmerr.IO("open input", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return types.ParseResult{}, lmerr.IO("stat input", err)
	}
	totalBytes := info.Size()

	sampleSize := int64(anchorSampleSize)
	if totalBytes < sampleSize {
		sampleSize = totalBytes
	}
	sample := make([]byte, sampleSize)
	n, err := io.ReadFull(f, sample)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return types.ParseResult{}, lmerr.IO("read anchor sample", err)
	}
	sample = sample[:n]
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return types.ParseResult{}, lmerr.IO("rewind input", err)
	}

	timeAnchor := anchor.Derive(string(sample))
	deviceInfo := device.Extract(string(sample))

	st, err := store.Create(cache.StorePath(cacheDir))
	if err != nil {
		return types.ParseResult{}, err
	}
	defer func() { _ = st.Close() }()

	summary, anrCount, crashCount, err := b.stream(f, totalBytes, st, timeAnchor)
	if err != nil {
		return types.ParseResult{}, err
	}

	if err := st.RebuildSecondaryAndFTS(); err != nil {
		return types.ParseResult{}, err
	}
	b.emit(BuildProgress{BytesRead: totalBytes, TotalBytes: totalBytes, RowsProcessed: summary.TotalRows, Phase: PhaseBuildingFTS})

	if err := st.Optimize(); err != nil {
		return types.ParseResult{}, err
	}
	b.emit(BuildProgress{BytesRead: totalBytes, TotalBytes: totalBytes, RowsProcessed: summary.TotalRows, Phase: PhaseOptimizing})

	if err := st.SaveSummary(summary); err != nil {
		return types.ParseResult{}, err
	}
	b.emit(BuildProgress{BytesRead: totalBytes, TotalBytes: totalBytes, RowsProcessed: summary.TotalRows, Phase: PhaseComplete})

	return types.ParseResult{
		Device:       deviceInfo,
		ANRCount:     anrCount,
		CrashCount:   crashCount,
		IndexSummary: summary,
		CacheDir:     cacheDir,
	}, nil
}

// stream is step 4.6's core loop: one pass over the input, batched
// commits, and cooperative cancellation checked at each line boundary.
func (b *Builder) stream(r io.Reader, totalBytes int64, st *store.Store, timeAnchor types.TimeAnchor) (types.IndexSummary, int64, int64, error) {
	var summary types.IndexSummary
	var anrCount, crashCount int64
	var bytesRead int64
	var nextID int64
	var batchCount int

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, readBufferSize), maxLineSize)

	batch, err := st.BeginBatch()
	if err != nil {
		return summary, 0, 0, err
	}
	defer func() { _ = batch.Rollback() }()

	for scanner.Scan() {
		if b.cancelled.Load() {
			return summary, anrCount, crashCount, lmerr.ErrCancelled
		}

		line := scanner.Text()
		bytesRead += int64(len(line)) + 1

		if anrPattern.MatchString(line) {
			anrCount++
		}
		if fatalPattern.MatchString(line) || tombPattern.MatchString(line) {
			crashCount++
		}

		parsed, ok := parser.ParseLine(line)
		if !ok {
			metrics.BuildLinesSkippedTotal.Inc()
			continue
		}
		if b.dedup != nil && b.dedup.Seen(line) {
			continue
		}

		nextID++
		tsISO, tsUnixMs, convErr := timeconv.ToISOSafe(parsed.TsDisplay, timeAnchor)
		if convErr != nil {
			tsISO, tsUnixMs = "", 0
		}
		row := parsed.ToLogRow(nextID, float64(tsUnixMs), tsISO)

		if err := batch.Insert(row); err != nil {
			return summary, anrCount, crashCount, err
		}

		summary.TotalRows++
		metrics.BuildRowsTotal.WithLabelValues(row.Level).Inc()
		switch row.Level {
		case "E":
			summary.ErrorCount++
		case "F":
			summary.FatalCount++
		}
		if tsUnixMs > 0 {
			if summary.MinTimestamp == nil || tsUnixMs < *summary.MinTimestamp {
				v := tsUnixMs
				summary.MinTimestamp = &v
			}
			if summary.MaxTimestamp == nil || tsUnixMs > *summary.MaxTimestamp {
				v := tsUnixMs
				summary.MaxTimestamp = &v
			}
		}

		batchCount++
		if batchCount >= b.batchCommitSize {
			if err := batch.Commit(); err != nil {
				return summary, anrCount, crashCount, err
			}
			batch, err = st.BeginBatch()
			if err != nil {
				return summary, anrCount, crashCount, err
			}
			batchCount = 0
			b.emit(BuildProgress{BytesRead: bytesRead, TotalBytes: totalBytes, RowsProcessed: summary.TotalRows, Phase: PhaseParsing})
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, anrCount, crashCount, lmerr.IO("scan input", err)
	}

	if batchCount > 0 {
		if err := batch.Commit(); err != nil {
			return summary, anrCount, crashCount, err
		}
	} else if err := batch.Rollback(); err != nil {
		return summary, anrCount, crashCount, err
	}

	return summary, anrCount, crashCount, nil
}
