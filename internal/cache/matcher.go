// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package cache

import "strings"

// TextPredicateMatcher evaluates the plain-mode include/exclude message
// predicates of one query. Needles are case-folded once at construction
// so the per-row work is at most one fold of the message plus two
// substring scans.
type TextPredicateMatcher struct {
	include       string
	exclude       string
	caseSensitive bool
}

// NewTextPredicateMatcher builds a matcher for the given predicates.
// Either may be empty, meaning "no constraint on that side".
func NewTextPredicateMatcher(include, exclude string, caseSensitive bool) *TextPredicateMatcher {
	if !caseSensitive {
		include = strings.ToLower(include)
		exclude = strings.ToLower(exclude)
	}
	return &TextPredicateMatcher{
		include:       include,
		exclude:       exclude,
		caseSensitive: caseSensitive,
	}
}

// Accept reports whether msg passes both predicates: contains the include
// needle (when set) and does not contain the exclude needle (when set).
func (m *TextPredicateMatcher) Accept(msg string) bool {
	if m.include == "" && m.exclude == "" {
		return true
	}
	if !m.caseSensitive {
		msg = strings.ToLower(msg)
	}
	if m.include != "" && !strings.Contains(msg, m.include) {
		return false
	}
	if m.exclude != "" && strings.Contains(msg, m.exclude) {
		return false
	}
	return true
}
