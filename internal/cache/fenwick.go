// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package cache

// FenwickTree keeps per-bucket row counts with O(log n) update and prefix
// sum. The query executor fills one from a single GROUP BY scan over a
// filter's id range and reads prefix sums off it to answer both the
// estimated total and the cursor's position ratio without a second
// COUNT(*) pass.
type FenwickTree struct {
	tree []int64
}

// NewFenwickTree creates a tree over n zero-valued buckets.
func NewFenwickTree(n int) *FenwickTree {
	return &FenwickTree{tree: make([]int64, n+1)}
}

// Update adds delta to bucket i (0-indexed). Out-of-range indexes are
// ignored.
func (ft *FenwickTree) Update(i int, delta int64) {
	if i < 0 || i >= len(ft.tree)-1 {
		return
	}
	for j := i + 1; j < len(ft.tree); j += j & (-j) {
		ft.tree[j] += delta
	}
}

// PrefixSum returns the sum of buckets 0..i inclusive. An index past the
// end clamps to the full total; a negative index yields 0.
func (ft *FenwickTree) PrefixSum(i int) int64 {
	if i >= len(ft.tree)-1 {
		i = len(ft.tree) - 2
	}
	var sum int64
	for j := i + 1; j > 0; j -= j & (-j) {
		sum += ft.tree[j]
	}
	return sum
}

// Total returns the sum over every bucket.
func (ft *FenwickTree) Total() int64 {
	return ft.PrefixSum(len(ft.tree) - 2)
}
