// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package jflow

import (
	"github.com/rs/zerolog"

	"code.hybscloud.com/jflow/pool"
)

// config collects the functional options applied to a single public
// entry-point call.
type config struct {
	useThreads   bool
	numThreads   int
	minBatchSize int
	pool         *pool.Pool
	log          zerolog.Logger
}

func defaultConfig() config {
	return config{log: zerolog.Nop()}
}

// Option configures a public entry-point call beyond its positional
// use_threads/num_threads/pretty arguments.
type Option func(*config)

// WithMinBatchSize overrides the default threshold below which a batch
// always runs sequentially.
func WithMinBatchSize(n int) Option {
	return func(c *config) { c.minBatchSize = n }
}

// WithThreadPool supplies an already-running pool to reuse across
// calls instead of creating and tearing one down per call — the
// caller owns the pool's lifetime and must Shutdown it itself.
func WithThreadPool(p *pool.Pool) Option {
	return func(c *config) { c.pool = p }
}

// WithLogger attaches a zerolog.Logger that receives Debug/Warn events
// around pool creation, fallback-to-sequential, and per-batch element
// failures. The default is a no-op logger, so callers get silence
// unless they opt in.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) { c.log = log }
}

func applyOptions(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
