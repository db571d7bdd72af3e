// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/jflow/node"
	"code.hybscloud.com/jflow/rx"
)

func mustParse(t *testing.T, s string) *node.Node {
	t.Helper()
	n, err := node.ParseString(s)
	require.NoError(t, err)
	return n
}

func encode(t *testing.T, n *node.Node) string {
	t.Helper()
	b, err := node.Encode(n, false)
	require.NoError(t, err)
	return string(b)
}

func TestRemoveEmptyStringsPreservesNulls(t *testing.T) {
	in := mustParse(t, `{"a":"","b":"x","c":null}`)
	out := RemoveEmptyStrings(in)
	require.JSONEq(t, `{"b":"x","c":null}`, encode(t, out))
}

func TestRemoveNullsPreservesEmptyStrings(t *testing.T) {
	in := mustParse(t, `{"a":"","b":"x","c":null}`)
	out := RemoveNulls(in)
	require.JSONEq(t, `{"a":"","b":"x"}`, encode(t, out))
}

func TestRemoveEmptyStringsRecursesIntoObjectsAndArrays(t *testing.T) {
	in := mustParse(t, `{"a":{"b":""},"c":[{"d":""},{"e":"x"}]}`)
	out := RemoveEmptyStrings(in)
	require.JSONEq(t, `{"a":{},"c":[{},{"e":"x"}]}`, encode(t, out))
}

func TestRemoveEmptyStringsIdempotent(t *testing.T) {
	in := mustParse(t, `{"a":"","b":{"c":"","d":"x"},"e":[{"f":""}]}`)
	once := RemoveEmptyStrings(in)
	twice := RemoveEmptyStrings(once)
	require.JSONEq(t, encode(t, once), encode(t, twice))
}

func TestRemoveNullsIdempotent(t *testing.T) {
	in := mustParse(t, `{"a":null,"b":{"c":null,"d":1}}`)
	once := RemoveNulls(in)
	twice := RemoveNulls(once)
	require.JSONEq(t, encode(t, once), encode(t, twice))
}

func TestRemoveEmptyStringsDoesNotMutateInput(t *testing.T) {
	in := mustParse(t, `{"a":""}`)
	_ = RemoveEmptyStrings(in)
	require.JSONEq(t, `{"a":""}`, encode(t, in))
}

func TestReplaceValuesByRegex(t *testing.T) {
	in := mustParse(t, `{"status":"old_active","name":"John"}`)
	pattern, err := rx.Compile(`^old_.*$`, 0)
	require.NoError(t, err)

	out := ReplaceValues(in, pattern, "new_value")
	require.JSONEq(t, `{"status":"new_value","name":"John"}`, encode(t, out))
}

func TestReplaceValuesLeavesNonStringLeavesAlone(t *testing.T) {
	in := mustParse(t, `{"a":1,"b":null,"c":true,"d":"old_x"}`)
	pattern, err := rx.Compile(`^old_.*$`, 0)
	require.NoError(t, err)

	out := ReplaceValues(in, pattern, "new")
	require.JSONEq(t, `{"a":1,"b":null,"c":true,"d":"new"}`, encode(t, out))
}

func TestReplaceKeysSubstitutesMatchingKeys(t *testing.T) {
	in := mustParse(t, `{"old_a":1,"keep":2}`)
	pattern, err := rx.Compile(`^old_`, 0)
	require.NoError(t, err)

	out := ReplaceKeys(in, pattern, "new_")
	require.JSONEq(t, `{"new_a":1,"keep":2}`, encode(t, out))
}

func TestReplaceKeysLastWinsOnCollision(t *testing.T) {
	in := mustParse(t, `{"x_a":1,"y_a":2}`)
	pattern, err := rx.Compile(`^(x|y)_`, 0)
	require.NoError(t, err)

	out := ReplaceKeys(in, pattern, "")
	require.Len(t, out.Fields, 1)
	require.Equal(t, "a", out.Fields[0].Key)
	require.Equal(t, float64(2), out.Fields[0].Value.Num)
}
