// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package jflow is a JSON transformation engine: it parses a document,
// performs one or more structural transformations (flatten, schema
// induction, filter/rewrite), and serializes the result. Batches of
// documents can optionally be processed across a worker pool.
//
// Every entry point validates its input, parses it with package node,
// dispatches to the relevant internal package, serializes the result,
// and returns a tagged error from the taxonomy in errors.go on
// failure. Resource acquisition (parse tree, arena, regex handles, and
// the worker pool when batching) is scoped to the call and released on
// every exit path, including errors.
package jflow

import (
	"fmt"

	"code.hybscloud.com/jflow/builder"
	"code.hybscloud.com/jflow/flatten"
	"code.hybscloud.com/jflow/node"
	"code.hybscloud.com/jflow/ops"
	"code.hybscloud.com/jflow/rx"
	"code.hybscloud.com/jflow/schema"
)

func parse(text string) (*node.Node, error) {
	if text == "" {
		return nil, ErrInvalidInput
	}
	n, err := node.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return n, nil
}

func serialize(n *node.Node, pretty bool) (string, error) {
	b, err := node.Encode(n, pretty)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}
	return string(b), nil
}

func flattenOptions(useThreads bool, numThreads int, opts []Option) (flatten.Options, config) {
	c := applyOptions(opts)
	fo := flatten.Options{
		UseThreads:   useThreads,
		NumThreads:   numThreads,
		MinBatchSize: c.minBatchSize,
		Pool:         c.pool,
	}
	if useThreads && c.pool == nil {
		c.log.Debug().Int("num_threads", numThreads).Msg("jflow: creating ad hoc batch pool")
	}
	return fo, c
}

// FlattenJSON parses text and flattens it.
func FlattenJSON(text string, useThreads bool, numThreads int, pretty bool, opts ...Option) (string, error) {
	root, err := parse(text)
	if err != nil {
		return "", err
	}
	fo, _ := flattenOptions(useThreads, numThreads, opts)
	out, err := flatten.Document(root, fo)
	if err != nil {
		return "", classifyError(err)
	}
	return serialize(out, pretty)
}

// FlattenBatch parses and flattens each element of texts independently,
// preserving input order.
func FlattenBatch(texts []string, useThreads bool, numThreads int, pretty bool, opts ...Option) ([]string, error) {
	roots := make([]*node.Node, len(texts))
	for i, t := range texts {
		root, err := parse(t)
		if err != nil {
			return nil, err
		}
		roots[i] = root
	}
	fo, c := flattenOptions(useThreads, numThreads, opts)
	threshold := fo.MinBatchSize
	if threshold == 0 {
		threshold = 100
	}
	if useThreads && len(texts) < threshold {
		c.log.Debug().Int("batch_size", len(texts)).Msg("jflow: batch below threshold, running sequentially")
	}
	flattened, err := flatten.Batch(roots, fo)
	if err != nil {
		c.log.Warn().Err(err).Msg("jflow: batch element failed")
		return nil, classifyError(err)
	}
	out := make([]string, len(flattened))
	for i, n := range flattened {
		s, err := serialize(n, pretty)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// GenerateSchema parses text and induces a JSON Schema Draft-7
// document describing it.
func GenerateSchema(text string, pretty bool) (string, error) {
	root, err := parse(text)
	if err != nil {
		return "", err
	}
	s := schema.Induce(root)
	return serialize(s.MarshalNode(), pretty)
}

// GenerateSchemaBatch induces one schema per element of texts and
// merges them into a single schema describing the whole batch.
func GenerateSchemaBatch(texts []string, pretty bool) (string, error) {
	roots := make([]*node.Node, len(texts))
	for i, t := range texts {
		root, err := parse(t)
		if err != nil {
			return "", err
		}
		roots[i] = root
	}
	s := schema.InduceBatch(roots)
	return serialize(s.MarshalNode(), pretty)
}

// GetFlattenedPathsWithTypes flattens text and returns a map from each
// flattened path to its JSON Schema type name.
func GetFlattenedPathsWithTypes(text string, pretty bool) (string, error) {
	root, err := parse(text)
	if err != nil {
		return "", err
	}
	flat, err := flatten.Document(root, flatten.Options{})
	if err != nil {
		return "", classifyError(err)
	}
	fields := make([]node.Pair, len(flat.Fields))
	for i, p := range flat.Fields {
		fields[i] = node.Pair{Key: p.Key, Value: node.String(schema.Induce(p.Value).Types[0])}
	}
	return serialize(&node.Node{Kind: node.KindObject, Fields: fields}, pretty)
}

// RemoveEmptyStrings parses text and drops every Object field whose
// value is a zero-length string.
func RemoveEmptyStrings(text string, pretty bool) (string, error) {
	root, err := parse(text)
	if err != nil {
		return "", err
	}
	return serialize(ops.RemoveEmptyStrings(root), pretty)
}

// RemoveNulls parses text and drops every Object field whose value is
// null.
func RemoveNulls(text string, pretty bool) (string, error) {
	root, err := parse(text)
	if err != nil {
		return "", err
	}
	return serialize(ops.RemoveNulls(root), pretty)
}

// ReplaceKeys parses text and rewrites every Object key matching
// pattern with replacement.
func ReplaceKeys(text, pattern, replacement string, pretty bool) (string, error) {
	root, err := parse(text)
	if err != nil {
		return "", err
	}
	compiled, err := compilePattern(pattern, replacement)
	if err != nil {
		return "", err
	}
	return serialize(ops.ReplaceKeys(root, compiled, replacement), pretty)
}

// ReplaceValues parses text and rewrites every String leaf matching
// pattern with replacement.
func ReplaceValues(text, pattern, replacement string, pretty bool) (string, error) {
	root, err := parse(text)
	if err != nil {
		return "", err
	}
	compiled, err := compilePattern(pattern, replacement)
	if err != nil {
		return "", err
	}
	return serialize(ops.ReplaceValues(root, compiled, replacement), pretty)
}

func compilePattern(pattern, replacement string) (*rx.Pattern, error) {
	compiled, err := rx.Compile(pattern, rx.Optimize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	if err := rx.ValidateReplacement(replacement); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return compiled, nil
}

// BuilderExecute parses text and runs it through a builder.Builder
// configured with operations, applying Flatten last if present.
func BuilderExecute(text string, operations []builder.Operation, pretty bool) (string, error) {
	root, err := parse(text)
	if err != nil {
		return "", err
	}
	b := builder.New(root)
	for _, op := range operations {
		b.Add(op)
	}
	out, err := b.Build()
	if err != nil {
		return "", classifyError(err)
	}
	return serialize(out, pretty)
}
