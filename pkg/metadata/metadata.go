// Package metadata loads the hand-authored metadata document that annotates
// the C API with semantic roles (node properties backed by enumerations,
// globally important enumerations).
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument reports a metadata document that cannot be read or has the wrong shape.
var ErrInvalidDocument = errors.New("invalid metadata document")

const (
	keyNodes                    = "nodes"
	keyProperties               = "properties"
	keyValueEnum                = "value_enum"
	keyAdditionalImportantEnums = "additional_important_enums"
)

// Property is one property entry of a node.
type Property struct {
	Name         string
	ValueEnum    string
	HasValueEnum bool
}

// Node is one entry of the nodes mapping. Properties keep document order.
type Node struct {
	Name       string
	Properties []Property
}

// Document is a loaded metadata document. Nodes and properties keep the
// order in which they appear in the file; Raw is the document as decoded.
type Document struct {
	Raw                      map[string]any
	root                     *yaml.Node
	Nodes                    []Node
	AdditionalImportantEnums []string
}

// Load reads and parses the metadata document at path.
func Load(path string, validate bool) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}

	doc, err := Parse(data, validate)
	if err != nil {
		return nil, fmt.Errorf("metadata %s: %w", path, err)
	}

	return doc, nil
}

// Parse decodes a metadata document. When validate is set the document is
// first checked against the embedded schema.
func Parse(data []byte, validate bool) (*Document, error) {
	var root yaml.Node

	err := yaml.Unmarshal(data, &root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var raw map[string]any

	if len(root.Content) > 0 {
		decodeErr := root.Decode(&raw)
		if decodeErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, decodeErr)
		}

		raw = stringKeys(raw)
	}

	if validate {
		validateErr := Validate(raw)
		if validateErr != nil {
			return nil, validateErr
		}
	}

	doc := &Document{Raw: raw, root: &root}

	if len(root.Content) == 0 {
		return doc, nil
	}

	top := resolve(root.Content[0])

	pairs, err := mappingPairs(top, "document")
	if err != nil {
		return nil, err
	}

	for _, pair := range pairs {
		switch pair.key {
		case keyNodes:
			doc.Nodes, err = parseNodes(pair.value)
		case keyAdditionalImportantEnums:
			doc.AdditionalImportantEnums, err = parseStringList(pair.value, keyAdditionalImportantEnums)
		}

		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// Node returns the node named name.
func (d *Document) Node(name string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.Name == name {
			return n, true
		}
	}

	return Node{}, false
}

// MarshalJSON writes the document as loaded.
func (d *Document) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(d.Raw)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	return data, nil
}

// MarshalYAML writes the document as loaded, in its original key order.
func (d *Document) MarshalYAML() (any, error) {
	if d.root == nil || len(d.root.Content) == 0 {
		return d.Raw, nil
	}

	return d.root.Content[0], nil
}

func parseNodes(value *yaml.Node) ([]Node, error) {
	pairs, err := mappingPairs(value, keyNodes)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(pairs))

	for _, pair := range pairs {
		node := Node{Name: pair.key}

		nodePairs, pairErr := mappingPairs(pair.value, "node "+pair.key)
		if pairErr != nil {
			return nil, pairErr
		}

		for _, np := range nodePairs {
			if np.key != keyProperties {
				continue
			}

			node.Properties, pairErr = parseProperties(np.value, pair.key)
			if pairErr != nil {
				return nil, pairErr
			}
		}

		nodes = append(nodes, node)
	}

	return nodes, nil
}

func parseProperties(value *yaml.Node, nodeName string) ([]Property, error) {
	pairs, err := mappingPairs(value, "properties of "+nodeName)
	if err != nil {
		return nil, err
	}

	props := make([]Property, 0, len(pairs))

	for _, pair := range pairs {
		prop := Property{Name: pair.key}

		propPairs, pairErr := mappingPairs(pair.value, fmt.Sprintf("property %s.%s", nodeName, pair.key))
		if pairErr != nil {
			return nil, pairErr
		}

		for _, pp := range propPairs {
			if pp.key != keyValueEnum {
				continue
			}

			if pp.value.Kind != yaml.ScalarNode || isNull(pp.value) {
				return nil, fmt.Errorf("%w: %s.%s: value_enum must be a string", ErrInvalidDocument, nodeName, pair.key)
			}

			prop.ValueEnum = pp.value.Value
			prop.HasValueEnum = true
		}

		props = append(props, prop)
	}

	return props, nil
}

func parseStringList(value *yaml.Node, what string) ([]string, error) {
	value = resolve(value)
	if isNull(value) {
		return nil, nil
	}

	if value.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: %s must be a sequence", ErrInvalidDocument, what)
	}

	items := make([]string, 0, len(value.Content))

	for _, item := range value.Content {
		item = resolve(item)
		if item.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: %s entries must be strings", ErrInvalidDocument, what)
		}

		items = append(items, item.Value)
	}

	return items, nil
}

type keyValue struct {
	value *yaml.Node
	key   string
}

// mappingPairs returns the entries of a mapping node in document order.
// A null node is an empty mapping.
func mappingPairs(n *yaml.Node, what string) ([]keyValue, error) {
	n = resolve(n)
	if isNull(n) {
		return nil, nil
	}

	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s must be a mapping", ErrInvalidDocument, what)
	}

	pairs := make([]keyValue, 0, len(n.Content)/2)

	for i := 0; i+1 < len(n.Content); i += 2 {
		pairs = append(pairs, keyValue{key: resolve(n.Content[i]).Value, value: n.Content[i+1]})
	}

	return pairs, nil
}

// stringKeys rewrites nested mappings with non-string keys, which yaml.v3
// decodes as map[any]any, into string-keyed maps.
func stringKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = stringKeyValue(v)
	}

	return out
}

func stringKeyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return stringKeys(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeyValue(val)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = stringKeyValue(item)
		}

		return out
	default:
		return v
	}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}

	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}
