// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package node

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyInput is returned by Parse/ParseString when the input contains
// no JSON value at all.
var ErrEmptyInput = errors.New("node: empty input")

// Parse reads a single JSON document from r into a Node tree, preserving
// object key order. It is built on encoding/json.Decoder's token stream
// rather than Unmarshal into map[string]any, because Go maps do not
// preserve insertion order and this module's flatten/schema invariants
// depend on object key order being preserved.
func Parse(r io.Reader) (*Node, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("node: %w", err)
	}
	n, err := parseValue(dec, tok)
	if err != nil {
		return nil, err
	}
	// Reject trailing garbage after the first value.
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("node: trailing data after JSON value")
	} else if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("node: %w", err)
	}
	return n, nil
}

// ParseString is a convenience wrapper around Parse for in-memory text.
func ParseString(s string) (*Node, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyInput
	}
	return Parse(strings.NewReader(s))
}

// parseValue interprets a single decoded token (and, for containers,
// recursively drains the matching stream) into a Node.
func parseValue(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch v := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("node: invalid number %q: %w", v.String(), err)
		}
		return Number(f), nil
	case string:
		return String(v), nil
	case json.Delim:
		switch v {
		case '[':
			return parseArray(dec)
		case '{':
			return parseObject(dec)
		default:
			return nil, fmt.Errorf("node: unexpected delimiter %q", v)
		}
	default:
		return nil, fmt.Errorf("node: unexpected token %v (%T)", tok, tok)
	}
}

func parseArray(dec *json.Decoder) (*Node, error) {
	var elems []*Node
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("node: %w", err)
		}
		el, err := parseValue(dec, tok)
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	// Consume closing ']'.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("node: %w", err)
	}
	return &Node{Kind: KindArray, Elems: elems}, nil
}

func parseObject(dec *json.Decoder) (*Node, error) {
	var fields []Pair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("node: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("node: object key is not a string: %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("node: %w", err)
		}
		val, err := parseValue(dec, valTok)
		if err != nil {
			return nil, err
		}
		// Duplicate keys are kept in arrival order rather than silently
		// overwritten, so downstream operators can apply their own
		// documented policy (see ops.ReplaceKeys).
		fields = append(fields, Pair{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("node: %w", err)
	}
	return &Node{Kind: KindObject, Fields: fields}, nil
}
