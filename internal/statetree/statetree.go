// Package statetree provides tolerant navigation over a decoded client-state
// payload. Every lookup is total: a missing key, a wrong type, or an
// out-of-range index yields a non-existent Node instead of a panic, so
// callers can probe several historical payload shapes without guarding each
// step.
package statetree

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

// Node wraps one value of the decoded payload.
type Node struct {
	value  any
	exists bool
}

// Parse decodes a JSON document into a navigable tree.
func Parse(data []byte) (Node, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return Node{}, errors.Wrap(errors.ErrCodeStateMalformed, "payload is not valid JSON", err)
	}

	return FromValue(value), nil
}

// FromValue wraps an already-decoded value.
func FromValue(value any) Node {
	return Node{value: value, exists: true}
}

// Exists reports whether the node refers to a present value.
func (n Node) Exists() bool {
	return n.exists
}

// Value returns the underlying decoded value.
func (n Node) Value() any {
	return n.value
}

// Key descends into a map entry.
func (n Node) Key(name string) Node {
	if !n.exists {
		return Node{}
	}
	obj, ok := n.value.(map[string]any)
	if !ok {
		return Node{}
	}
	value, ok := obj[name]
	if !ok {
		return Node{}
	}

	return FromValue(value)
}

// Index descends into an array element.
func (n Node) Index(i int) Node {
	if !n.exists {
		return Node{}
	}
	arr, ok := n.value.([]any)
	if !ok || i < 0 || i >= len(arr) {
		return Node{}
	}

	return FromValue(arr[i])
}

// Path descends through a mixed chain of map keys (string) and array
// indices (int).
func (n Node) Path(parts ...any) Node {
	current := n
	for _, part := range parts {
		switch p := part.(type) {
		case string:
			current = current.Key(p)
		case int:
			current = current.Index(p)
		default:
			return Node{}
		}
		if !current.exists {
			return Node{}
		}
	}

	return current
}

// FirstOf returns the node at the first path that resolves to a present
// value, trying each in order.
func (n Node) FirstOf(paths ...[]any) Node {
	for _, path := range paths {
		if node := n.Path(path...); node.Exists() {
			return node
		}
	}

	return Node{}
}

// IsObject reports whether the node holds a map.
func (n Node) IsObject() bool {
	_, ok := n.value.(map[string]any)

	return n.exists && ok
}

// IsArray reports whether the node holds an array.
func (n Node) IsArray() bool {
	_, ok := n.value.([]any)

	return n.exists && ok
}

// Len returns the number of array elements or map entries.
func (n Node) Len() int {
	if !n.exists {
		return 0
	}
	switch v := n.value.(type) {
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	default:
		return 0
	}
}

// Items returns the array elements in order.
func (n Node) Items() []Node {
	if !n.exists {
		return nil
	}
	arr, ok := n.value.([]any)
	if !ok {
		return nil
	}
	items := make([]Node, len(arr))
	for i, value := range arr {
		items[i] = FromValue(value)
	}

	return items
}

// Keys returns the map keys in sorted order.
func (n Node) Keys() []string {
	if !n.exists {
		return nil
	}
	obj, ok := n.value.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

// Str returns the node as a string.
func (n Node) Str() (string, bool) {
	if !n.exists {
		return "", false
	}
	s, ok := n.value.(string)

	return s, ok
}

// Float returns the node as a float64. Numeric strings are accepted since
// some payload versions quote their numbers.
func (n Node) Float() (float64, bool) {
	if !n.exists {
		return 0, false
	}
	switch v := n.value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}

// Int returns the node as an int64, accepting integral floats and numeric
// strings.
func (n Node) Int() (int64, bool) {
	f, ok := n.Float()
	if !ok {
		return 0, false
	}

	return int64(f), true
}

// Bool returns the node as a bool.
func (n Node) Bool() (bool, bool) {
	if !n.exists {
		return false, false
	}
	b, ok := n.value.(bool)

	return b, ok
}

// Block scans a flat payload array for a marker string and returns the
// first subsequent element that holds an object, decoding escaped JSON
// strings on the way. The current payload format interleaves a reference id
// between the marker and its data, so up to a few following elements are
// probed.
func (n Node) Block(name string) Node {
	const probeDepth = 4

	if !n.exists {
		return Node{}
	}
	arr, ok := n.value.([]any)
	if !ok {
		return Node{}
	}

	for i, value := range arr {
		marker, ok := value.(string)
		if !ok || marker != name {
			continue
		}
		for j := i + 1; j < len(arr) && j <= i+probeDepth; j++ {
			if block, ok := decodeBlockElement(arr[j]); ok {
				return block
			}
		}
	}

	return Node{}
}

func decodeBlockElement(value any) (Node, bool) {
	switch v := value.(type) {
	case map[string]any:
		if len(v) > 0 {
			return FromValue(v), true
		}
	case string:
		trimmed := strings.TrimSpace(v)
		if !strings.HasPrefix(trimmed, "{") {
			return Node{}, false
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil && len(obj) > 0 {
			return FromValue(obj), true
		}
	}

	return Node{}, false
}
