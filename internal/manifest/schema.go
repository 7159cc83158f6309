package manifest

import (
	"fmt"

	yamlv3 "gopkg.in/yaml.v3"

	"pod2unit/internal/util"
)

// fieldKind is the declared type of a manifest option.
type fieldKind int

const (
	kindString fieldKind = iota
	kindBool
	kindStringList
	kindStringMap
	kindContainers
)

func (k fieldKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindBool:
		return "boolean"
	case kindStringList:
		return "list of strings"
	case kindStringMap:
		return "mapping of strings"
	case kindContainers:
		return "mapping of containers"
	}
	return "unknown"
}

type field struct {
	key  string
	kind fieldKind
}

// podFields is the recognized pod option schema. The declaration order
// here is the order the command builder emits flags in, so it must stay
// stable across releases.
var podFields = []field{
	{"added-hosts", kindStringList},
	{"cgroup-parent", kindString},
	{"dns", kindStringList},
	{"dns-options", kindStringList},
	{"dns-search", kindStringList},
	{"hostname", kindString},
	{"infra", kindBool},
	{"infra-command", kindString},
	{"infra-image", kindString},
	{"static-ip", kindString},
	{"mac-address", kindString},
	{"network", kindString},
	{"network-alias", kindString},
	{"no-hosts", kindBool},
	{"published-ports", kindStringList},
	{"shared-namespaces", kindStringList},
	{"containers", kindContainers},
}

var containerFields = []field{
	{"image", kindString},
	{"command", kindStringList},
	{"environment", kindStringMap},
	{"volumes", kindStringList},
	{"ports", kindStringList},
	{"labels", kindStringMap},
	{"depends-on", kindStringList},
	{"extra-options", kindStringList},
	{"compose-file", kindString},
	{"compose-service", kindString},
}

func fieldByKey(fields []field, key string) (field, bool) {
	for _, f := range fields {
		if f.key == key {
			return f, true
		}
	}
	return field{}, false
}

// validateDocument schema-checks a parsed manifest document: the root must
// be a mapping with a pods mapping under it, pod and container names must
// be unique and unit-safe, and every field value must match its declared
// kind. Returns all problems found, not just the first.
func validateDocument(doc *yamlv3.Node) []ValidationError {
	if doc.Kind != yamlv3.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Tag == "!!null" {
		return nil
	}
	if root.Kind != yamlv3.MappingNode {
		return []ValidationError{{
			Field:      "manifest",
			Message:    "root must be a mapping",
			Suggestion: "start the file with a top-level 'pods:' key",
		}}
	}

	var errs []ValidationError
	podsSeen := false
	for i := 0; i < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Value != "pods" {
			errs = append(errs, ValidationError{
				Field:      key.Value,
				Message:    "unknown top-level key",
				Suggestion: "only 'pods' is recognized at the top level",
			})
			continue
		}
		if podsSeen {
			// A second mapping would be dropped on decode; reject it so
			// no declared pod ever silently vanishes from the output.
			errs = append(errs, ValidationError{
				Field:      "pods",
				Message:    "duplicate 'pods' key",
				Suggestion: "declare all pods under a single 'pods' mapping",
			})
			continue
		}
		podsSeen = true
		errs = append(errs, validatePods(value)...)
	}
	return errs
}

func validatePods(pods *yamlv3.Node) []ValidationError {
	if pods.Tag == "!!null" {
		return nil
	}
	if pods.Kind != yamlv3.MappingNode {
		return []ValidationError{{
			Field:      "pods",
			Message:    fmt.Sprintf("expected a mapping of pod names, got %s", nodeKind(pods)),
			Suggestion: "declare each pod as 'pods.<name>'",
		}}
	}

	var errs []ValidationError
	seen := make(map[string]bool)
	for i := 0; i < len(pods.Content); i += 2 {
		key, value := pods.Content[i], pods.Content[i+1]
		name := key.Value
		path := "pods." + name

		if seen[name] {
			errs = append(errs, ValidationError{
				Field:      path,
				Message:    "duplicate pod name",
				Suggestion: "pod names are unique keys; merge or rename one of the entries",
			})
			continue
		}
		seen[name] = true

		if !util.ValidName(name) {
			errs = append(errs, ValidationError{
				Field:      path,
				Message:    fmt.Sprintf("invalid pod name %q", name),
				Suggestion: "names must be usable as path segments and unit identifiers: [a-zA-Z0-9_.-], not starting with punctuation",
			})
		}
		errs = append(errs, validateMapping(value, path, podFields)...)
	}
	return errs
}

func validateMapping(node *yamlv3.Node, path string, fields []field) []ValidationError {
	if node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yamlv3.MappingNode {
		return []ValidationError{{
			Field:   path,
			Message: fmt.Sprintf("expected a mapping, got %s", nodeKind(node)),
		}}
	}

	var errs []ValidationError
	for i := 0; i < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		fieldPath := path + "." + key.Value

		f, ok := fieldByKey(fields, key.Value)
		if !ok {
			errs = append(errs, ValidationError{
				Field:      fieldPath,
				Message:    "unknown option",
				Suggestion: "remove it or check the spelling against the documented schema",
			})
			continue
		}
		errs = append(errs, validateValue(value, fieldPath, f.kind)...)
	}
	return errs
}

func validateValue(node *yamlv3.Node, path string, kind fieldKind) []ValidationError {
	if node.Tag == "!!null" {
		return nil // unset; the default applies
	}

	mismatch := func() []ValidationError {
		return []ValidationError{{
			Field:      path,
			Message:    fmt.Sprintf("expected %s, got %s", kind, nodeKind(node)),
			Suggestion: "fix the value type; type mismatches fail the build",
		}}
	}

	switch kind {
	case kindString:
		if node.Kind != yamlv3.ScalarNode || node.Tag != "!!str" {
			return mismatch()
		}
	case kindBool:
		if node.Kind != yamlv3.ScalarNode || node.Tag != "!!bool" {
			return mismatch()
		}
	case kindStringList:
		if node.Kind != yamlv3.SequenceNode {
			return mismatch()
		}
		var errs []ValidationError
		for i, item := range node.Content {
			if item.Kind != yamlv3.ScalarNode || item.Tag != "!!str" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s[%d]", path, i),
					Message: fmt.Sprintf("expected string, got %s", nodeKind(item)),
				})
			}
		}
		return errs
	case kindStringMap:
		if node.Kind != yamlv3.MappingNode {
			return mismatch()
		}
		var errs []ValidationError
		for i := 0; i < len(node.Content); i += 2 {
			item := node.Content[i+1]
			if item.Kind != yamlv3.ScalarNode || item.Tag != "!!str" {
				errs = append(errs, ValidationError{
					Field:   path + "." + node.Content[i].Value,
					Message: fmt.Sprintf("expected string, got %s", nodeKind(item)),
				})
			}
		}
		return errs
	case kindContainers:
		return validateContainers(node, path)
	}
	return nil
}

func validateContainers(node *yamlv3.Node, path string) []ValidationError {
	if node.Kind != yamlv3.MappingNode {
		return []ValidationError{{
			Field:   path,
			Message: fmt.Sprintf("expected a mapping of container names, got %s", nodeKind(node)),
		}}
	}

	var errs []ValidationError
	seen := make(map[string]bool)
	for i := 0; i < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		name := key.Value
		ctrPath := path + "." + name

		if seen[name] {
			errs = append(errs, ValidationError{
				Field:      ctrPath,
				Message:    "duplicate container name",
				Suggestion: "container names are unique within a pod",
			})
			continue
		}
		seen[name] = true

		if !util.ValidName(name) {
			errs = append(errs, ValidationError{
				Field:      ctrPath,
				Message:    fmt.Sprintf("invalid container name %q", name),
				Suggestion: "names must be usable as unit identifiers: [a-zA-Z0-9_.-], not starting with punctuation",
			})
		}
		errs = append(errs, validateMapping(value, ctrPath, containerFields)...)
	}
	return errs
}

func nodeKind(node *yamlv3.Node) string {
	switch node.Kind {
	case yamlv3.ScalarNode:
		switch node.Tag {
		case "!!bool":
			return "boolean"
		case "!!int":
			return "integer"
		case "!!float":
			return "float"
		default:
			return "string"
		}
	case yamlv3.SequenceNode:
		return "list"
	case yamlv3.MappingNode:
		return "mapping"
	}
	return "unknown value"
}
