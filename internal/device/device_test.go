// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package device

import "testing"

const sample = `
[ro.product.brand]: [google]
[ro.product.model]: [Pixel 8]
[ro.build.version.release]: [14]
[ro.build.version.sdk]: [34]
[ro.build.id]: [UQ1A.240205.004]
[ro.build.fingerprint]: [google/shiba/shiba:14/UQ1A.240205.004/11269751:user/release-keys]
`

func TestExtract(t *testing.T) {
	got := Extract(sample)
	if got.Brand != "google" || got.Model != "Pixel 8" || got.AndroidVersion != "14" {
		t.Fatalf("unexpected device info: %+v", got)
	}
	if got.APILevel != 34 {
		t.Fatalf("APILevel = %d, want 34", got.APILevel)
	}
	if got.BuildID != "UQ1A.240205.004" {
		t.Fatalf("BuildID = %q", got.BuildID)
	}
}

func TestExtractMissingFieldsZeroValue(t *testing.T) {
	got := Extract("no matching lines here")
	if got.Brand != "" || got.APILevel != 0 {
		t.Fatalf("expected zero-valued device info, got %+v", got)
	}
}
