// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package cache

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/leaf76/lazy-milktea/internal/lmerr"
)

// cacheDirName is the root under the invoking user's home directory that
// holds one subdirectory per indexed report.
const cacheDirName = ".lazy_milktea_cache"

// indexFileName is the on-disk name of the Index Store within a report's
// cache directory.
const indexFileName = "logcat.db"

// tempBugreportName is the streamed-out copy of a ZIP's chosen entry,
// deleted once the bulk build over it succeeds.
const tempBugreportName = "_temp_bugreport.txt"

// Locate maps an input report path to its per-report cache directory,
// creating it if necessary: <home>/.lazy_milktea_cache/<file_stem>/.
func Locate(inputPath string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", lmerr.IO("resolve home directory", err)
	}
	return LocateUnder(filepath.Join(home, cacheDirName), inputPath)
}

// LocateUnder is Locate with an explicit cache root instead of
// "<home>/.lazy_milktea_cache" -- the config-driven override a host can set
// via internal/config.Config.CacheRoot / internal/builder.WithCacheRoot.
func LocateUnder(root, inputPath string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	dir := filepath.Join(root, stem)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	return dir, nil
}

// StorePath returns the Index Store file path within a report's cache
// directory.
func StorePath(cacheDir string) string {
	return filepath.Join(cacheDir, indexFileName)
}

// IsZip reports whether path names a ZIP archive by case-insensitive
// suffix. Anything else is treated as plain text (§6).
func IsZip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zip")
}

// qualifies reports whether a ZIP entry name is a plausible bugreport text
// file: lowercased, ends in ".txt", and contains "bugreport" or
// "main_entry".
func qualifies(name string) bool {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".txt") {
		return false
	}
	return strings.Contains(lower, "bugreport") || strings.Contains(lower, "main_entry")
}

// ExtractBugreport opens the ZIP at zipPath, picks the largest entry
// qualifying as a bugreport text file, and streams it to
// destDir/_temp_bugreport.txt. The caller is responsible for deleting the
// returned path once the build over it succeeds (§4.8).
func ExtractBugreport(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", lmerr.Zip(err)
	}
	defer func() { _ = r.Close() }()

	var chosen *zip.File
	for _, f := range r.File {
		if !qualifies(f.Name) {
			continue
		}
		if chosen == nil || f.UncompressedSize64 > chosen.UncompressedSize64 {
			chosen = f
		}
	}
	if chosen == nil {
		return "", lmerr.ErrNoBugreportFound
	}

	src, err := chosen.Open()
	if err != nil {
		return "", lmerr.Zip(err)
	}
	defer func() { _ = src.Close() }()

	destPath := filepath.Join(destDir, tempBugreportName)
	dest, err := os.Create(destPath)
	if err != nil {
		return "", lmerr.IO("create temp bugreport", err)
	}
	defer func() { _ = dest.Close() }()

	if _, err := io.Copy(dest, src); err != nil {
		return "", lmerr.Zip(err)
	}
	return destPath, nil
}
