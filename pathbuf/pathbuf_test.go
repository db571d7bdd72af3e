// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pathbuf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChildNoPrefix(t *testing.T) {
	key, err := Child("", "a")
	require.NoError(t, err)
	require.Equal(t, "a", key)
}

func TestChildWithPrefix(t *testing.T) {
	key, err := Child("a.b", "c")
	require.NoError(t, err)
	require.Equal(t, "a.b.c", key)
}

func TestIndexNoPrefix(t *testing.T) {
	key, err := Index("", 3)
	require.NoError(t, err)
	require.Equal(t, "[3]", key)
}

func TestIndexWithPrefix(t *testing.T) {
	key, err := Index("arr", 2)
	require.NoError(t, err)
	require.Equal(t, "arr[2]", key)
}

func TestDepthExceeded(t *testing.T) {
	long := strings.Repeat("x", MaxDepth)
	_, err := Child(long, "y")
	require.ErrorIs(t, err, ErrDepthExceeded)
}

func TestBuilderMatchesFreeFunctions(t *testing.T) {
	var b Builder
	k1, err := b.Child("a.b", "c")
	require.NoError(t, err)
	require.Equal(t, "a.b.c", k1)

	k2, err := b.Index("arr", 5)
	require.NoError(t, err)
	require.Equal(t, "arr[5]", k2)
}
