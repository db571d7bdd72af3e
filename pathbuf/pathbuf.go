// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pathbuf builds the dotted/bracketed key path used by the
// flattener: object keys are joined by '.', array indices are written
// as "[i]" immediately following the parent key, never preceded by a
// dot.
package pathbuf

import (
	"errors"
	"strconv"
	"strings"
)

// MaxDepth is the maximum key path length in bytes.
const MaxDepth = 2048

// ErrDepthExceeded is returned when a constructed key would exceed
// MaxDepth bytes.
var ErrDepthExceeded = errors.New("pathbuf: key path exceeds maximum depth")

// Child builds the child key for an object field named name under
// prefix: name alone at the root, "prefix.name" otherwise.
func Child(prefix, name string) (string, error) {
	if prefix == "" {
		return checked(name)
	}
	return checked(prefix + "." + name)
}

// Index builds the child key for an array element at index i under
// prefix: "prefix[i]".
func Index(prefix string, i int) (string, error) {
	suffix := "[" + strconv.Itoa(i) + "]"
	return checked(prefix + suffix)
}

func checked(key string) (string, error) {
	if len(key) > MaxDepth {
		return "", ErrDepthExceeded
	}
	return key, nil
}

// Builder is a reusable scratch buffer for a caller that builds many
// keys over the course of one walk. Package flatten holds one Builder
// per flatten call and threads it through the whole recursive descent,
// rather than calling the package-level Child/Index (which remain
// available for one-off key construction, e.g. in tests).
type Builder struct {
	buf strings.Builder
}

// Reset clears the builder for reuse.
func (b *Builder) Reset() { b.buf.Reset() }

// Child builds "prefix.name" (or just "name" if prefix is empty) in the
// reused buffer and returns the resulting key, or ErrDepthExceeded if it
// would exceed MaxDepth.
func (b *Builder) Child(prefix, name string) (string, error) {
	b.buf.Reset()
	b.buf.WriteString(prefix)
	if prefix != "" {
		b.buf.WriteByte('.')
	}
	b.buf.WriteString(name)
	if b.buf.Len() > MaxDepth {
		return "", ErrDepthExceeded
	}
	return b.buf.String(), nil
}

// Index appends "[i]" to prefix and returns the resulting key, or
// ErrDepthExceeded if it would exceed MaxDepth.
func (b *Builder) Index(prefix string, i int) (string, error) {
	b.buf.Reset()
	b.buf.WriteString(prefix)
	b.buf.WriteByte('[')
	b.buf.WriteString(strconv.Itoa(i))
	b.buf.WriteByte(']')
	if b.buf.Len() > MaxDepth {
		return "", ErrDepthExceeded
	}
	return b.buf.String(), nil
}
