// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package device extracts device identity fields from a bugreport text
// sample via a single regex sweep. It is peripheral to the indexing
// pipeline: it never touches the Index Store and its output is returned
// alongside, not through, the parse result.
package device

import (
	"regexp"
	"strconv"

	"github.com/leaf76/lazy-milktea/internal/types"
)

var (
	brandRE       = regexp.MustCompile(`(?m)^\[ro\.product\.brand\]:\s*\[([^\]]*)\]`)
	modelRE       = regexp.MustCompile(`(?m)^\[ro\.product\.model\]:\s*\[([^\]]*)\]`)
	versionRE     = regexp.MustCompile(`(?m)^\[ro\.build\.version\.release\]:\s*\[([^\]]*)\]`)
	apiLevelRE    = regexp.MustCompile(`(?m)^\[ro\.build\.version\.sdk\]:\s*\[([^\]]*)\]`)
	buildIDRE     = regexp.MustCompile(`(?m)^\[ro\.build\.id\]:\s*\[([^\]]*)\]`)
	fingerprintRE = regexp.MustCompile(`(?m)^\[ro\.build\.fingerprint\]:\s*\[([^\]]*)\]`)
)

// Extract pulls the device identity out of a bugreport text sample. Any
// field whose property line is absent from the sample is left zero-valued;
// this never errors since the spec treats device extraction as a
// best-effort sweep.
func Extract(text string) types.DeviceInfo {
	apiLevel, _ := strconv.Atoi(firstMatch(apiLevelRE, text))
	return types.DeviceInfo{
		Brand:          firstMatch(brandRE, text),
		Model:          firstMatch(modelRE, text),
		AndroidVersion: firstMatch(versionRE, text),
		APILevel:       int32(apiLevel),
		BuildID:        firstMatch(buildIDRE, text),
		Fingerprint:    firstMatch(fingerprintRE, text),
	}
}

func firstMatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
