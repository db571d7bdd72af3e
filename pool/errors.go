// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pool

import "errors"

// errPoolShutdown is returned by AddTask once Shutdown has been called.
var errPoolShutdown = errors.New("pool: shut down, not accepting new tasks")
