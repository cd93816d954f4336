// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package cache

import "testing"

func TestFenwickTreePrefixSums(t *testing.T) {
	ft := NewFenwickTree(8)
	counts := []int64{5, 0, 3, 7, 0, 2, 1, 4}
	for i, c := range counts {
		ft.Update(i, c)
	}

	var running int64
	for i, c := range counts {
		running += c
		if got := ft.PrefixSum(i); got != running {
			t.Fatalf("PrefixSum(%d) = %d, want %d", i, got, running)
		}
	}
	if ft.Total() != 22 {
		t.Fatalf("Total = %d, want 22", ft.Total())
	}
}

func TestFenwickTreeAccumulatesDeltas(t *testing.T) {
	ft := NewFenwickTree(4)
	ft.Update(2, 10)
	ft.Update(2, 5)
	if got := ft.PrefixSum(2) - ft.PrefixSum(1); got != 15 {
		t.Fatalf("bucket 2 = %d, want 15", got)
	}
}

func TestFenwickTreeBoundsClamp(t *testing.T) {
	ft := NewFenwickTree(4)
	ft.Update(0, 1)
	ft.Update(3, 2)

	// Out-of-range updates are dropped, not panics.
	ft.Update(-1, 100)
	ft.Update(4, 100)

	if ft.Total() != 3 {
		t.Fatalf("Total = %d, want 3", ft.Total())
	}
	if got := ft.PrefixSum(99); got != 3 {
		t.Fatalf("PrefixSum past end = %d, want clamped total 3", got)
	}
	if got := ft.PrefixSum(-1); got != 0 {
		t.Fatalf("PrefixSum(-1) = %d, want 0", got)
	}
}
