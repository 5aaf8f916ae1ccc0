package merge

// Deep merges overlay onto base and returns a new value.
//
// Objects merge key by key, recursing into keys present on both sides. Arrays merge as a set union:
// base order is kept and overlay elements not already present are appended. Any other combination,
// including a scalar conflict or a type mismatch, takes the overlay value.
func Deep(base any, overlay any) any {
	switch baseTyped := base.(type) {
	case map[string]any:
		overlayTyped, ok := overlay.(map[string]any)
		if !ok {
			return clone(overlay)
		}
		out := make(map[string]any, len(baseTyped)+len(overlayTyped))
		for key, value := range baseTyped {
			out[key] = clone(value)
		}
		for key, value := range overlayTyped {
			if existing, ok := out[key]; ok {
				out[key] = Deep(existing, value)
				continue
			}
			out[key] = clone(value)
		}
		return out
	case []any:
		overlayTyped, ok := overlay.([]any)
		if !ok {
			return clone(overlay)
		}
		return union(baseTyped, overlayTyped)
	default:
		return clone(overlay)
	}
}

func union(base []any, overlay []any) []any {
	out := make([]any, 0, len(base)+len(overlay))
	for _, item := range base {
		out = append(out, clone(item))
	}
	for _, item := range overlay {
		if containsEqual(out, item) {
			continue
		}
		out = append(out, clone(item))
	}
	return out
}

func containsEqual(items []any, value any) bool {
	for _, item := range items {
		if equal(item, value) {
			return true
		}
	}
	return false
}

// AddAbsentKeys returns a copy of existing with every key of additions that existing lacks.
// Keys already present in existing are never replaced, even when their values differ.
func AddAbsentKeys(existing map[string]any, additions map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(additions))
	for key, value := range existing {
		out[key] = clone(value)
	}
	for key, value := range additions {
		if _, ok := out[key]; ok {
			continue
		}
		out[key] = clone(value)
	}
	return out
}
