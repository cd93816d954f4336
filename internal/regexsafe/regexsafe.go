// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package regexsafe validates and bounds user-supplied regular expressions
// before they ever reach a compiled matcher, so a hostile filter pattern
// cannot be used to stall a query.
package regexsafe

import (
	"regexp"
	"regexp/syntax"
	"strings"

	"github.com/leaf76/lazy-milktea/internal/lmerr"
	"github.com/leaf76/lazy-milktea/internal/metrics"
)

// SizeLimit is the maximum accepted pattern length, in bytes.
const SizeLimit = 1024

// ProgramCeiling is the maximum estimated compiled-program memory, in
// bytes. Go's regexp is RE2-based and cannot backtrack catastrophically,
// but an absurdly large repeated-group pattern can still compile into an
// oversized program; this ceiling catches that case the denylist below
// does not.
const ProgramCeiling = 1 << 20 // 1 MiB

// bytesPerInstruction approximates the in-memory footprint of one
// regexp/syntax.Inst, rounded up generously since the real struct size
// varies by instruction kind and build.
const bytesPerInstruction = 32

// dangerousPatterns are shapes known to cause catastrophic backtracking in
// backtracking regex engines: nested quantifiers over a group, and
// excessively large explicit repetition counts.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(\.\+\)\+`),
	regexp.MustCompile(`\(\.\*\)\*`),
	regexp.MustCompile(`\(a\+\)\+`),
	regexp.MustCompile(`\(a\*\)\*`),
	regexp.MustCompile(`\([^)]+\+\)\+`),
	regexp.MustCompile(`\(a\|a\+\)\+`),
	regexp.MustCompile(`\.\{[0-9]{4,}\}`),
	regexp.MustCompile(`\.\{[0-9]+,[0-9]{4,}\}`),
}

// metacharacters are the characters that make ShouldUsePlainSearch return
// false.
const metacharacters = `.*+?[](){}|^$\`

// ValidateSafety rejects patterns that are too long or match a
// known-dangerous shape. It does not compile the pattern.
func ValidateSafety(pattern string) error {
	if len(pattern) > SizeLimit {
		metrics.RegexRejectionsTotal.WithLabelValues("too_long").Inc()
		return &lmerr.InvalidFilterError{Message: "regex pattern too long"}
	}
	for _, dangerous := range dangerousPatterns {
		if dangerous.MatchString(pattern) {
			metrics.RegexRejectionsTotal.WithLabelValues("denylist").Inc()
			return &lmerr.InvalidFilterError{
				Message: "potentially slow regex pattern detected: avoid nested quantifiers like (a+)+ or (.*)*",
			}
		}
	}
	return nil
}

// CompileUserRegex validates pattern's safety, then compiles it with a
// bounded-program check. caseInsensitive prefixes the Go regexp
// case-insensitivity flag.
func CompileUserRegex(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	if err := ValidateSafety(pattern); err != nil {
		return nil, err
	}

	effective := pattern
	if caseInsensitive {
		effective = "(?i)" + pattern
	}

	if err := checkProgramSize(effective); err != nil {
		return nil, err
	}

	re, err := regexp.Compile(effective)
	if err != nil {
		metrics.RegexRejectionsTotal.WithLabelValues("compile_error").Inc()
		return nil, &lmerr.RegexError{Pattern: pattern, Cause: err}
	}
	return re, nil
}

// checkProgramSize parses and compiles pattern via regexp/syntax to
// estimate the resulting program's memory footprint without constructing
// the full regexp.Regexp, rejecting it before the expensive compile if it
// would exceed ProgramCeiling.
func checkProgramSize(pattern string) error {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return &lmerr.RegexError{Pattern: pattern, Cause: err}
	}
	prog, err := syntax.Compile(re.Simplify())
	if err != nil {
		return &lmerr.RegexError{Pattern: pattern, Cause: err}
	}
	estimated := len(prog.Inst) * bytesPerInstruction
	if estimated > ProgramCeiling {
		metrics.RegexRejectionsTotal.WithLabelValues("program_too_large").Inc()
		return &lmerr.InvalidFilterError{Message: "regex program too large"}
	}
	return nil
}

// ShouldUsePlainSearch reports whether pattern contains no regex
// metacharacters, in which case a plain substring search is recommended
// over compiling a regex.
func ShouldUsePlainSearch(pattern string) bool {
	return !strings.ContainsAny(pattern, metacharacters)
}

// PlainTextContains reports whether text contains pattern, honoring
// caseSensitive.
func PlainTextContains(text, pattern string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(text, pattern)
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(pattern))
}
