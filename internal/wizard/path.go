package wizard

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/kash05/court-connect/internal/courtconnect"
)

func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, badUpdate(path, "empty path")
	}
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return nil, badUpdate(path, "empty path segment")
		}
	}
	return parts, nil
}

// setPath writes raw at path inside the JSON form of v and decodes the
// result back into a fresh T. Unknown struct fields and type mismatches
// fail with ErrBadUpdate.
func setPath[T any](v T, path []string, raw json.RawMessage) (T, error) {
	var zero T
	full := strings.Join(path, ".")

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, badUpdate(full, "invalid JSON value")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return zero, err
	}
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return zero, err
	}

	root, err = setIn(root, path, value, full)
	if err != nil {
		return zero, err
	}

	data, err = json.Marshal(root)
	if err != nil {
		return zero, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var out T
	if err := dec.Decode(&out); err != nil {
		return zero, badUpdate(full, "%v", err)
	}
	return out, nil
}

func setIn(node any, path []string, value any, full string) (any, error) {
	if len(path) == 0 {
		return value, nil
	}
	key := path[0]

	switch n := node.(type) {
	case map[string]any:
		child, err := setIn(n[key], path[1:], value, full)
		if err != nil {
			return nil, err
		}
		n[key] = child
		return n, nil
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(n) {
			return nil, badUpdate(full, "index %q out of range", key)
		}
		child, err := setIn(n[i], path[1:], value, full)
		if err != nil {
			return nil, err
		}
		n[i] = child
		return n, nil
	case nil:
		// Missing map entry or null field: create the object on the way down.
		return setIn(map[string]any{}, path, value, full)
	}
	return nil, badUpdate(full, "%q is not an object", key)
}

func decodeValue[V any](path string, raw json.RawMessage) (V, error) {
	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, badUpdate(path, "invalid value: %v", err)
	}
	return v, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func sortedDayKeys[V any](m map[courtconnect.Day]V) []courtconnect.Day {
	return slices.Sorted(maps.Keys(m))
}
