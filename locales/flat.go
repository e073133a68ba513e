// Package locales reads, merges and writes nested JSON locale stores.
//
// A store is a nested object of keys to translated strings, for example
//
//	{
//	  "common": {
//	    "안녕하세요": "Hello"
//	  }
//	}
//
// and is handled through its flattened view, an insertion-ordered map from
// dot-joined paths ("common.안녕하세요") to values. Non-string leaves are
// carried through untouched.
package locales

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Map is an insertion-ordered flat view of a locale store. Values are either
// strings or json.RawMessage for non-string leaves.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Set stores value under key. New keys are appended; existing keys keep
// their position.
func (m *Map) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// String returns the string value stored under key. Non-string leaves are
// returned in their JSON form.
func (m *Map) String(key string) (string, bool) {
	v, ok := m.values[key]
	if !ok {
		return "", false
	}
	switch tv := v.(type) {
	case string:
		return tv, true
	case json.RawMessage:
		return string(tv), true
	}
	return fmt.Sprint(v), true
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys.
func (m *Map) Len() int { return len(m.keys) }

// Flatten parses a nested JSON object into its flattened view, preserving
// key order. Empty nested objects contribute no keys.
func Flatten(data []byte) (*Map, error) {
	m := NewMap()
	if err := flattenObject(data, "", false, m); err != nil {
		return nil, err
	}
	return m, nil
}

func flattenObject(data []byte, prefix string, nested bool, m *Map) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	t, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected {, got %v", t)
	}

	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %T", kt)
		}
		path := key
		if nested {
			path = prefix + "." + key
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding %q: %w", path, err)
		}
		trimmed := bytes.TrimSpace(raw)
		switch {
		case len(trimmed) > 0 && trimmed[0] == '{':
			if err := flattenObject(trimmed, path, true, m); err != nil {
				return err
			}
		case len(trimmed) > 0 && trimmed[0] == '"':
			var s string
			if err := json.Unmarshal(trimmed, &s); err != nil {
				return fmt.Errorf("decoding %q: %w", path, err)
			}
			m.Set(path, s)
		default:
			var buf bytes.Buffer
			if err := json.Compact(&buf, trimmed); err != nil {
				return fmt.Errorf("decoding %q: %w", path, err)
			}
			m.Set(path, json.RawMessage(buf.Bytes()))
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// node is one object of the nested store.
type node struct {
	keys     []string
	children map[string]*node
	leaves   map[string]any
}

func newNode() *node {
	return &node{children: make(map[string]*node), leaves: make(map[string]any)}
}

func (n *node) has(k string) bool {
	if _, ok := n.children[k]; ok {
		return true
	}
	_, ok := n.leaves[k]
	return ok
}

// unflatten rebuilds the nested tree by splitting keys on '.'. When a leaf
// and an object claim the same path, the later key wins.
func unflatten(m *Map) *node {
	root := newNode()
	for _, key := range m.keys {
		parts := strings.Split(key, ".")
		cur := root
		for _, p := range parts[:len(parts)-1] {
			child, ok := cur.children[p]
			if !ok {
				if !cur.has(p) {
					cur.keys = append(cur.keys, p)
				}
				delete(cur.leaves, p)
				child = newNode()
				cur.children[p] = child
			}
			cur = child
		}
		last := parts[len(parts)-1]
		if !cur.has(last) {
			cur.keys = append(cur.keys, last)
		}
		delete(cur.children, last)
		cur.leaves[last] = m.values[key]
	}
	return root
}

// Marshal serializes m as a nested JSON object with two-space indentation,
// insertion-ordered keys and backslash normalization applied.
func Marshal(m *Map) ([]byte, error) {
	var b bytes.Buffer
	if err := writeNode(&b, unflatten(m), ""); err != nil {
		return nil, err
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func writeNode(b *bytes.Buffer, n *node, indent string) error {
	if len(n.keys) == 0 {
		b.WriteString("{}")
		return nil
	}
	inner := indent + "  "
	b.WriteString("{\n")
	for i, k := range n.keys {
		b.WriteString(inner)
		b.WriteString(normalizeKey(quote(k)))
		b.WriteString(": ")
		if child, ok := n.children[k]; ok {
			if err := writeNode(b, child, inner); err != nil {
				return err
			}
		} else if err := writeLeaf(b, n.leaves[k], inner); err != nil {
			return fmt.Errorf("encoding %q: %w", k, err)
		}
		if i < len(n.keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(indent)
	b.WriteByte('}')
	return nil
}

func writeLeaf(b *bytes.Buffer, v any, indent string) error {
	switch tv := v.(type) {
	case string:
		b.WriteString(normalizeValue(quote(tv)))
		return nil
	case json.RawMessage:
		return json.Indent(b, tv, indent, "  ")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Indent(b, data, indent, "  ")
}

// quote returns s as a JSON string literal without HTML escaping.
func quote(s string) string {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(b.String(), "\n")
}
