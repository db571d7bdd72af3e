// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

// Package raceflag exposes whether the race detector is active, so
// lock-free/atomic test suites (package queue, package pool, package
// slab) can skip or relax timing-sensitive concurrent assertions that
// the race detector cannot correctly reason about: it tracks
// synchronization via mutex/channel/WaitGroup, not the acquire-release
// orderings these packages establish through bare atomics.
package raceflag

// Enabled is true when the race detector is active.
const Enabled = true
