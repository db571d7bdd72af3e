// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package jflow

import (
	"testing"

	"code.hybscloud.com/jflow/pool"
)

func poolForTest(t *testing.T) *pool.Pool {
	t.Helper()
	return pool.New(4)
}
