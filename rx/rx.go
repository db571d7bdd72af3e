// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rx wraps the standard library regexp engine with a
// compile-once/match-many contract, plus a cheap syntactic classifier
// that routes obviously-anchored or substring patterns to specialized
// string matchers instead of the general engine.
package rx

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MaxPatternLength     = 512
	MaxReplacementLength = 1024
)

// ErrPatternTooLong is returned when pattern exceeds MaxPatternLength.
var ErrPatternTooLong = errors.New("rx: pattern exceeds maximum length")

// ErrReplacementTooLong is returned when a replacement exceeds
// MaxReplacementLength.
var ErrReplacementTooLong = errors.New("rx: replacement exceeds maximum length")

// ErrEmbeddedNUL is returned when pattern or replacement contains a NUL
// byte.
var ErrEmbeddedNUL = errors.New("rx: embedded NUL byte is not allowed")

// Flags configure Compile.
type Flags uint8

const (
	// CaseInsensitive matches case-insensitively.
	CaseInsensitive Flags = 1 << iota
	// Multiline makes ^ and $ match at line boundaries.
	Multiline
	// DotAll makes '.' match newlines too.
	DotAll
	// Optimize enables fast-path classification.
	Optimize
)

// class classifies a pattern for the fast-path matcher.
type class uint8

const (
	classCustom class = iota
	classStartsWith
	classEndsWith
	classExactMatch
	classContains
)

// Pattern is a compiled regular expression, produced by Compile.
type Pattern struct {
	source  string
	re      *regexpEngine
	class   class
	literal string // the literal fragment for fast-path classes
}

// Compile compiles pattern under flags, enforcing the length and
// embedded-NUL bounds before ever invoking the underlying engine.
func Compile(pattern string, flags Flags) (*Pattern, error) {
	if len(pattern) > MaxPatternLength {
		return nil, ErrPatternTooLong
	}
	if strings.IndexByte(pattern, 0) >= 0 {
		return nil, ErrEmbeddedNUL
	}

	re, err := newRegexpEngine(pattern, flags)
	if err != nil {
		return nil, fmt.Errorf("rx: invalid pattern: %w", err)
	}

	p := &Pattern{source: pattern, re: re, class: classCustom}
	if flags&Optimize != 0 {
		p.class, p.literal = classify(pattern, flags)
	}
	return p, nil
}

// classify performs a cheap syntactic inspection: ^p, p$, ^p$ and a
// plain literal (no metacharacters) are recognized; anything else
// falls back to classCustom. Classification
// only applies when flags carry no case-folding/multiline/dotall
// modifiers that would change literal-matching semantics, since the
// fast-path matchers below operate on raw bytes.
func classify(pattern string, flags Flags) (class, string) {
	if flags&(CaseInsensitive|Multiline|DotAll) != 0 {
		return classCustom, ""
	}
	anchoredStart := strings.HasPrefix(pattern, "^")
	anchoredEnd := strings.HasSuffix(pattern, "$")
	body := pattern
	if anchoredStart {
		body = body[1:]
	}
	if anchoredEnd {
		body = strings.TrimSuffix(body, "$")
	}
	if containsMeta(body) {
		return classCustom, ""
	}
	switch {
	case anchoredStart && anchoredEnd:
		return classExactMatch, body
	case anchoredStart:
		return classStartsWith, body
	case anchoredEnd:
		return classEndsWith, body
	default:
		return classContains, body
	}
}

// containsMeta reports whether s contains any regexp metacharacter,
// disqualifying it from literal fast-path matching.
func containsMeta(s string) bool {
	return strings.ContainsAny(s, `\.+*?()|[]{}^$`)
}

// Test reports whether text matches the pattern.
func (p *Pattern) Test(text string) bool {
	switch p.class {
	case classStartsWith:
		return strings.HasPrefix(text, p.literal)
	case classEndsWith:
		return strings.HasSuffix(text, p.literal)
	case classExactMatch:
		return text == p.literal
	case classContains:
		return strings.Contains(text, p.literal)
	default:
		return p.re.MatchString(text)
	}
}

// ValidateReplacement enforces the replacement length and embedded-NUL
// bounds. Callers (package builder, and the root package's ReplaceKeys/
// ReplaceValues) validate once at build/compile time, not on every
// ReplaceAll call.
func ValidateReplacement(replacement string) error {
	if len(replacement) > MaxReplacementLength {
		return ErrReplacementTooLong
	}
	if strings.IndexByte(replacement, 0) >= 0 {
		return ErrEmbeddedNUL
	}
	return nil
}

// ReplaceAll replaces every match of the pattern in text with
// replacement, returning the new string and the number of
// replacements made. Fast-path classification only accelerates Test;
// ReplaceAll always defers to the underlying engine, since expanding a
// replacement (including capture-group references) is not something
// the cheap literal classes can shortcut correctly. Callers must
// validate replacement with ValidateReplacement beforehand; ReplaceAll
// does not re-check bounds.
func (p *Pattern) ReplaceAll(text, replacement string) (string, int) {
	return p.re.ReplaceAllString(text, replacement)
}

// String returns the original pattern source.
func (p *Pattern) String() string { return p.source }
