// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package cache

import "testing"

func TestMatcherIncludeAndExcludeCaseInsensitive(t *testing.T) {
	m := NewTextPredicateMatcher("hello", "banana", false)

	cases := map[string]bool{
		"hello apple":  true,
		"hello banana": false,
		"HELLO CHERRY": true,
		"goodbye":      false,
	}
	for msg, want := range cases {
		if got := m.Accept(msg); got != want {
			t.Errorf("Accept(%q) = %v, want %v", msg, got, want)
		}
	}
}

func TestMatcherCaseSensitive(t *testing.T) {
	m := NewTextPredicateMatcher("HELLO", "", true)
	if m.Accept("hello apple") {
		t.Error("case-sensitive include matched lower case")
	}
	if !m.Accept("HELLO CHERRY") {
		t.Error("exact-case include failed")
	}
}

func TestMatcherEmptyPredicatesAcceptEverything(t *testing.T) {
	m := NewTextPredicateMatcher("", "", false)
	for _, msg := range []string{"", "anything at all"} {
		if !m.Accept(msg) {
			t.Errorf("Accept(%q) = false with no predicates", msg)
		}
	}
}

func TestMatcherExcludeOnly(t *testing.T) {
	m := NewTextPredicateMatcher("", "ANR", false)
	if m.Accept("anr in com.foo") {
		t.Error("case-insensitive exclude missed")
	}
	if !m.Accept("started activity") {
		t.Error("non-matching message excluded")
	}
}
