// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rx

import "regexp"

// regexpEngine adapts regexp.Regexp to the (match-count-returning)
// contract ReplaceAll needs.
type regexpEngine struct {
	re *regexp.Regexp
}

func newRegexpEngine(pattern string, flags Flags) (*regexpEngine, error) {
	var prefix string
	if flags&CaseInsensitive != 0 {
		prefix += "i"
	}
	if flags&Multiline != 0 {
		prefix += "m"
	}
	if flags&DotAll != 0 {
		prefix += "s"
	}
	full := pattern
	if prefix != "" {
		full = "(?" + prefix + ")" + pattern
	}
	re, err := regexp.Compile(full)
	if err != nil {
		return nil, err
	}
	return &regexpEngine{re: re}, nil
}

func (e *regexpEngine) MatchString(s string) bool {
	return e.re.MatchString(s)
}

func (e *regexpEngine) ReplaceAllString(text, replacement string) (string, int) {
	count := 0
	out := e.re.ReplaceAllStringFunc(text, func(match string) string {
		count++
		// Expand $-references in replacement against this match using
		// the stdlib's own expansion via FindStringSubmatchIndex, so
		// capture groups keep working the same way regexp's
		// ReplaceAll does.
		idx := e.re.FindStringSubmatchIndex(match)
		if idx == nil {
			return replacement
		}
		return string(e.re.ExpandString(nil, replacement, match, idx))
	})
	return out, count
}
