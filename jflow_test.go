// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package jflow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/jflow/builder"
)

// Scenario 1: flatten nested object.
func TestScenarioFlattenNestedObject(t *testing.T) {
	out, err := FlattenJSON(`{"a":{"b":{"c":1}},"d":[10,20]}`, false, 0, false)
	require.NoError(t, err)
	require.JSONEq(t, `{"a.b.c":1,"d[0]":10,"d[1]":20}`, out)
}

// Scenario 2: array of objects flattened batch.
func TestScenarioArrayOfObjectsFlattenedBatch(t *testing.T) {
	out, err := FlattenJSON(`[{"x":1},{"y":{"z":2}}]`, false, 0, false)
	require.NoError(t, err)
	require.JSONEq(t, `[{"x":1},{"y.z":2}]`, out)
}

// Scenario 3: primitive array passthrough.
func TestScenarioPrimitiveArrayPassthrough(t *testing.T) {
	out, err := FlattenJSON(`[1,2,3]`, false, 0, false)
	require.NoError(t, err)
	require.JSONEq(t, `[1,2,3]`, out)
}

// Scenario 4: schema from mixed batch.
func TestScenarioSchemaFromMixedBatch(t *testing.T) {
	out, err := GenerateSchemaBatch([]string{
		`{"id":1,"name":"A"}`,
		`{"id":2,"name":null,"tag":"x"}`,
	}, false)
	require.NoError(t, err)
	require.Contains(t, out, `"$schema":"http://json-schema.org/draft-07/schema#"`)
	require.Contains(t, out, `"id":{"type":"integer"}`)
	require.Contains(t, out, `"name":{"type":["null","string"]}`)
	require.Contains(t, out, `"tag":{"type":"string"}`)
	require.Contains(t, out, `"required":["id","name"]`)
}

// Scenario 5: remove empty strings, preserve nulls.
func TestScenarioRemoveEmptyStringsPreserveNulls(t *testing.T) {
	withoutEmpty, err := RemoveEmptyStrings(`{"a":"","b":"x","c":null}`, false)
	require.NoError(t, err)
	require.JSONEq(t, `{"b":"x","c":null}`, withoutEmpty)

	withoutNulls, err := RemoveNulls(`{"a":"","b":"x","c":null}`, false)
	require.NoError(t, err)
	require.JSONEq(t, `{"a":"","b":"x"}`, withoutNulls)
}

// Scenario 6: replace values by regex.
func TestScenarioReplaceValuesByRegex(t *testing.T) {
	out, err := ReplaceValues(`{"status":"old_active","name":"John"}`, `^old_.*$`, "new_value", false)
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"new_value","name":"John"}`, out)
}

// Scenario 7: get paths with types.
func TestScenarioGetFlattenedPathsWithTypes(t *testing.T) {
	out, err := GetFlattenedPathsWithTypes(`{"name":"J","age":30,"active":true,"score":9.5,"addr":{"c":"X"}}`, false)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"string","age":"integer","active":"boolean","score":"number","addr.c":"string"}`, out)
}

func TestFlattenBatchParallelMatchesSequential(t *testing.T) {
	texts := make([]string, 250)
	for i := range texts {
		texts[i] = fmt.Sprintf(`{"a":{"b":%d}}`, i)
	}

	seq, err := FlattenBatch(texts, false, 0, false)
	require.NoError(t, err)
	par, err := FlattenBatch(texts, true, 0, false, WithMinBatchSize(100))
	require.NoError(t, err)

	require.Equal(t, seq, par)
}

func TestFlattenJSONInvalidInput(t *testing.T) {
	_, err := FlattenJSON(`{invalid`, false, 0, false)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFlattenJSONEmptyInput(t *testing.T) {
	_, err := FlattenJSON(``, false, 0, false)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReplaceKeysInvalidPattern(t *testing.T) {
	_, err := ReplaceKeys(`{"a":1}`, `(unterminated`, "x", false)
	require.ErrorIs(t, err, ErrInvalidPattern)
}

func TestReplaceKeysScenario(t *testing.T) {
	out, err := ReplaceKeys(`{"old_a":1,"keep":2}`, `^old_`, "new_", false)
	require.NoError(t, err)
	require.JSONEq(t, `{"new_a":1,"keep":2}`, out)
}

func TestBuilderExecutePipeline(t *testing.T) {
	out, err := BuilderExecute(`{"a":null,"b":"old_x"}`, []builder.Operation{
		{Kind: builder.OpRemoveNulls},
		{Kind: builder.OpReplaceValues, Pattern: "^old_", Replacement: "new_"},
	}, false)
	require.NoError(t, err)
	require.JSONEq(t, `{"b":"new_x"}`, out)
}

func TestBuilderExecuteWithFlattenTerminal(t *testing.T) {
	out, err := BuilderExecute(`{"a":{"b":null,"c":"x"}}`, []builder.Operation{
		{Kind: builder.OpFlatten},
		{Kind: builder.OpRemoveNulls},
	}, false)
	require.NoError(t, err)
	require.JSONEq(t, `{"a.c":"x"}`, out)
}

func TestGenerateSchemaSingleDocument(t *testing.T) {
	out, err := GenerateSchema(`{"a":1,"b":"s"}`, false)
	require.NoError(t, err)
	require.Contains(t, out, `"a":{"type":"integer"}`)
	require.Contains(t, out, `"b":{"type":"string"}`)
}

func TestWithThreadPoolReusesSuppliedPool(t *testing.T) {
	texts := make([]string, 150)
	for i := range texts {
		texts[i] = fmt.Sprintf(`{"a":%d}`, i)
	}
	p := poolForTest(t)
	defer p.Shutdown()

	out, err := FlattenBatch(texts, true, 0, false, WithThreadPool(p), WithMinBatchSize(100))
	require.NoError(t, err)
	require.Len(t, out, len(texts))
}
