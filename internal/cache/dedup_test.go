// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package cache

import "testing"

func TestDedupWindowReportsRepeats(t *testing.T) {
	w := NewDedupWindow(16)

	line := "08-24 06:22:33.123  1234  5678 I MyTag: repeated line"
	if w.Seen(line) {
		t.Fatal("first sighting reported as duplicate")
	}
	if !w.Seen(line) {
		t.Fatal("second sighting not reported as duplicate")
	}
	if w.Seen("a different line") {
		t.Fatal("distinct line reported as duplicate")
	}
}

func TestDedupWindowForgetsBeyondCapacity(t *testing.T) {
	w := NewDedupWindow(2)

	w.Seen("one")
	w.Seen("two")
	w.Seen("three") // evicts "one"

	if w.Seen("one") {
		t.Fatal("evicted line still reported as duplicate")
	}
	if !w.Seen("three") {
		t.Fatal("recent line forgotten")
	}
	if w.Len() != 2 {
		t.Fatalf("Len = %d, want 2", w.Len())
	}
}

func TestDedupWindowMinimumCapacity(t *testing.T) {
	w := NewDedupWindow(0)
	if w.Seen("x") {
		t.Fatal("first sighting reported as duplicate")
	}
	if !w.Seen("x") {
		t.Fatal("immediate repeat not caught even at capacity 1")
	}
}
