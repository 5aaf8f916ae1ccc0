package merge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	yaml "go.yaml.in/yaml/v3"
)

// Format is a structured serialization format that supports deep merging.
type Format string

const (
	// FormatJSON is JSON (.json).
	FormatJSON Format = "json"
	// FormatTOML is TOML (.toml).
	FormatTOML Format = "toml"
	// FormatYAML is YAML (.yaml, .yml).
	FormatYAML Format = "yaml"
)

var errTrailingData = errors.New("unexpected data after top-level value")

// FormatForPath returns the structured format implied by the path extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// Decode parses data into the merge value model.
func Decode(format Format, data []byte) (any, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatTOML:
		var out map[string]any
		if err := toml.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = map[string]any{}
		}
		return normalize(out), nil
	case FormatYAML:
		var out any
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		return normalize(out), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// DecodeTolerant parses data like Decode, but JSON input may carry comments and trailing commas.
// Only existing on-disk content is decoded this way; generated content must be strict.
func DecodeTolerant(format Format, data []byte) (any, error) {
	if format == FormatJSON {
		return decodeJSON(jsonc.ToJSON(data))
	}
	return Decode(format, data)
}

// Encode serializes value in format. The result always ends with a newline.
func Encode(format Format, value any) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch format {
	case FormatJSON:
		out, err = EncodeJSON(value)
	case FormatTOML:
		out, err = toml.Marshal(value)
	case FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err = encoder.Encode(value); err == nil {
			err = encoder.Close()
		}
		out = buf.Bytes()
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return ensureTrailingNewline(out), nil
}

// EncodeJSON renders value as two-space indented JSON with sorted object keys and no HTML escaping.
func EncodeJSON(value any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, errTrailingData
	}
	return normalize(out), nil
}

func ensureTrailingNewline(data []byte) []byte {
	if len(data) == 0 || data[len(data)-1] != '\n' {
		return append(data, '\n')
	}
	return data
}

// EqualJSON reports whether a and b decode to the same JSON value. Undecodable input is never equal.
func EqualJSON(a []byte, b []byte) bool {
	left, err := Decode(FormatJSON, a)
	if err != nil {
		return false
	}
	right, err := Decode(FormatJSON, b)
	if err != nil {
		return false
	}
	return equal(left, right)
}
