package merge

import (
	"bytes"
	"sort"
	"strings"
)

// NormalizePrefix returns the slash-separated, "./"-free form of a managed directory prefix.
func NormalizePrefix(prefix string) string {
	normalized := normalizePath(prefix)
	if normalized != "" && !strings.HasSuffix(normalized, "/") {
		normalized += "/"
	}
	return normalized
}

// IsManagedMergeable reports whether path is a structured file under one of the managed prefixes.
func IsManagedMergeable(path string, prefixes []string) bool {
	if _, ok := FormatForPath(path); !ok {
		return false
	}
	normalized := normalizePath(path)
	for _, prefix := range prefixes {
		p := NormalizePrefix(prefix)
		if p != "" && strings.HasPrefix(normalized, p) {
			return true
		}
	}
	return false
}

// Managed decides the content written to path. New content is used verbatim unless path is
// managed-mergeable and non-empty prior content exists; then both sides are deep-merged with new
// content winning scalar conflicts. Any parse or encode failure falls back to new content.
func Managed(path string, existing []byte, exists bool, generated []byte, prefixes []string) []byte {
	if !exists || len(bytes.TrimSpace(existing)) == 0 || !IsManagedMergeable(path, prefixes) {
		return generated
	}
	format, _ := FormatForPath(path)
	merged, ok := mergeDocuments(format, existing, generated)
	if !ok {
		return generated
	}
	return merged
}

func mergeDocuments(format Format, existing []byte, generated []byte) ([]byte, bool) {
	base, err := DecodeTolerant(format, existing)
	if err != nil {
		return nil, false
	}
	overlay, err := Decode(format, generated)
	if err != nil {
		return nil, false
	}
	out, err := Encode(format, Deep(base, overlay))
	if err != nil {
		return nil, false
	}
	return out, true
}

// ApplyJSONPatches deep-merges each patch in order onto base and renders indented JSON.
// A missing, empty, or unparseable base starts from an empty object; unparseable patches are skipped.
func ApplyJSONPatches(base []byte, patches ...[]byte) []byte {
	var current any = map[string]any{}
	if len(bytes.TrimSpace(base)) > 0 {
		if decoded, err := DecodeTolerant(FormatJSON, base); err == nil {
			current = decoded
		}
	}
	for _, patch := range patches {
		decoded, err := Decode(FormatJSON, patch)
		if err != nil {
			continue
		}
		current = Deep(current, decoded)
	}
	out, err := EncodeJSON(current)
	if err != nil {
		return []byte("{}\n")
	}
	return out
}

// AppendGitignore appends each pattern that is not already present as a trimmed line.
// Existing content is kept byte-for-byte and the result ends with a newline.
func AppendGitignore(existing []byte, patterns []string) []byte {
	present := make(map[string]struct{})
	for _, line := range strings.Split(string(existing), "\n") {
		present[strings.TrimSpace(line)] = struct{}{}
	}

	sorted := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmed := strings.TrimSpace(pattern)
		if trimmed == "" {
			continue
		}
		sorted = append(sorted, trimmed)
	}
	sort.Strings(sorted)

	var out strings.Builder
	out.Write(existing)
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		out.WriteByte('\n')
	}
	for _, pattern := range sorted {
		if _, ok := present[pattern]; ok {
			continue
		}
		present[pattern] = struct{}{}
		out.WriteString(pattern)
		out.WriteByte('\n')
	}
	return []byte(out.String())
}

func normalizePath(path string) string {
	normalized := strings.ReplaceAll(path, `\`, "/")
	for strings.HasPrefix(normalized, "./") {
		normalized = strings.TrimPrefix(normalized, "./")
	}
	return normalized
}
