// Package merge implements the structured merge policy: one deep-merge algorithm over a small
// object/array/scalar value model, with JSON, TOML, and YAML adapters at the edges.
package merge

import (
	"fmt"
	"reflect"
)

// normalize converts decoder output into the merge model: string-keyed maps, []any slices, and leaves.
// YAML can produce map[any]any for non-string keys; those keys are stringified.
func normalize(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalize(item)
		}
		return out
	default:
		return value
	}
}

// clone deep-copies objects and arrays so merged results never alias their inputs.
func clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = clone(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = clone(item)
		}
		return out
	default:
		return value
	}
}

// equal reports structural equality of two normalized values.
func equal(a any, b any) bool {
	return reflect.DeepEqual(a, b)
}
