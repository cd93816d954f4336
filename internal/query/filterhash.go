// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package query

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/leaf76/lazy-milktea/internal/types"
)

// fieldSep separates fields (and slice elements within a field) in the
// canonical encoding hashed below. Field values are written verbatim,
// without escaping, so two LogFilters whose string fields themselves
// contain this byte are not guaranteed distinct encodings.
const fieldSep = '\x1f'

// ComputeFilterHash hashes a canonical, field-order-sensitive encoding of
// filters (§4.7 step 1). Per P6, reordering Levels with identical
// membership may change the hash -- the caller is responsible for
// canonicalizing filters before hashing if set-equality is what it wants.
func ComputeFilterHash(filters types.LogFilters) uint64 {
	h := xxhash.New()
	write := func(s string) {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{fieldSep})
	}
	write(filters.TsFrom)
	write(filters.TsTo)
	write(strconv.Itoa(len(filters.Levels)))
	for _, lvl := range filters.Levels {
		write(lvl)
	}
	write(filters.Tag)
	write(strconv.Itoa(int(filters.Pid)))
	write(strconv.Itoa(int(filters.Tid)))
	write(filters.Text)
	write(filters.NotText)
	write(string(filters.TextMode))
	write(fmt.Sprintf("%v", filters.CaseSensitive))
	return h.Sum64()
}
