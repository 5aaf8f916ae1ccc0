package skill

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

const (
	yamlTagStr  = "!!str"
	yamlTagNull = "!!null"
)

type frontMatter struct {
	keys        []string
	name        *string
	description *string
}

// splitFrontMatter returns the YAML between the leading "---" fence pair and the body after it.
func splitFrontMatter(content string) (string, string, bool) {
	lines := strings.SplitAfter(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", "", false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], ""), strings.Join(lines[i+1:], ""), true
		}
	}
	return "", "", false
}

func parseFrontMatter(content string) (frontMatter, error) {
	out := frontMatter{keys: make([]string, 0)}
	if strings.TrimSpace(content) == "" {
		return out, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(content), &root); err != nil {
		return out, err
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return out, errors.New("front matter must be a YAML mapping")
	}

	mapping := root.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := strings.TrimSpace(mapping.Content[i].Value)
		if key == "" {
			continue
		}
		out.keys = append(out.keys, key)
		switch key {
		case "name":
			value, err := parseScalarString(mapping.Content[i+1], key)
			if err != nil {
				return out, err
			}
			out.name = value
		case "description":
			value, err := parseScalarString(mapping.Content[i+1], key)
			if err != nil {
				return out, err
			}
			out.description = value
		}
	}
	sort.Strings(out.keys)
	return out, nil
}

func parseScalarString(node *yaml.Node, field string) (*string, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("front matter field %q must be a string scalar", field)
	}
	if node.Tag == yamlTagNull {
		return nil, nil
	}
	if node.Tag != "" && node.Tag != yamlTagStr {
		return nil, fmt.Errorf("front matter field %q must be a string scalar", field)
	}
	value := node.Value
	return &value, nil
}
