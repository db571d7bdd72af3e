// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package jflow

import (
	"errors"
	"fmt"

	"code.hybscloud.com/jflow/pathbuf"
)

// Error taxonomy. Every public entry point returns one of these
// sentinels, wrapped with additional context via %w, never a bare
// internal error.
var (
	// ErrInvalidInput covers null/empty input or a parse failure.
	ErrInvalidInput = errors.New("jflow: invalid input")
	// ErrInvalidPattern covers a regex compile failure or a pattern
	// that violates package rx's length/NUL bounds.
	ErrInvalidPattern = errors.New("jflow: invalid pattern")
	// ErrOutOfMemory covers an arena, node, queue, or slab allocation
	// failure.
	ErrOutOfMemory = errors.New("jflow: out of memory")
	// ErrDepthExceeded covers a key path exceeding pathbuf.MaxDepth.
	ErrDepthExceeded = errors.New("jflow: key path exceeds maximum depth")
)

// classifyError maps an internal package error to the public taxonomy.
// A thread pool creation failure is handled by falling back to
// sequential execution rather than surfacing an error at all, so it
// never reaches this function. The only error a flatten or builder
// call can produce beyond a depth violation is a regex compile/bounds
// failure (builder.Builder compiles patterns at Add time), so the
// default case classifies as InvalidPattern.
func classifyError(err error) error {
	switch {
	case errors.Is(err, pathbuf.ErrDepthExceeded):
		return fmt.Errorf("%w: %v", ErrDepthExceeded, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
}
