package apimodel

import (
	"fmt"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Ordered is a string-keyed map that remembers insertion order.
// Overwriting an existing key keeps its original position.
// The zero value and a nil pointer are both empty maps for reading.
type Ordered[V any] struct {
	m *orderedmap.OrderedMap[string, V]
}

// NewOrdered creates an empty ordered map.
func NewOrdered[V any]() *Ordered[V] {
	return &Ordered[V]{m: orderedmap.New[string, V]()}
}

// Set inserts or overwrites key.
func (o *Ordered[V]) Set(key string, value V) {
	if o.m == nil {
		o.m = orderedmap.New[string, V]()
	}

	o.m.Set(key, value)
}

// Get returns the value stored under key.
func (o *Ordered[V]) Get(key string) (V, bool) {
	if o == nil || o.m == nil {
		var zero V

		return zero, false
	}

	return o.m.Get(key)
}

// Has reports whether key is present.
func (o *Ordered[V]) Has(key string) bool {
	_, ok := o.Get(key)

	return ok
}

// Delete removes key. Missing keys are ignored.
func (o *Ordered[V]) Delete(key string) {
	if o == nil || o.m == nil {
		return
	}

	o.m.Delete(key)
}

// Len returns the number of entries. Safe on a nil receiver.
func (o *Ordered[V]) Len() int {
	if o == nil || o.m == nil {
		return 0
	}

	return o.m.Len()
}

// Keys returns a copy of the keys in insertion order.
func (o *Ordered[V]) Keys() []string {
	if o.Len() == 0 {
		return nil
	}

	keys := make([]string, 0, o.m.Len())
	for k := range o.All() {
		keys = append(keys, k)
	}

	return keys
}

// All iterates entries in insertion order.
func (o *Ordered[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if o == nil || o.m == nil {
			return
		}

		for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Clone returns a shallow copy.
func (o *Ordered[V]) Clone() *Ordered[V] {
	clone := NewOrdered[V]()
	for k, v := range o.All() {
		clone.Set(k, v)
	}

	return clone
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (o *Ordered[V]) MarshalJSON() ([]byte, error) {
	if o.m == nil {
		return []byte("{}"), nil
	}

	data, err := o.m.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal ordered map: %w", err)
	}

	return data, nil
}

// MarshalYAML writes the entries as a YAML mapping in insertion order.
func (o *Ordered[V]) MarshalYAML() (any, error) {
	if o.m == nil {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}

	node, err := o.m.MarshalYAML()
	if err != nil {
		return nil, fmt.Errorf("marshal ordered map: %w", err)
	}

	return node, nil
}
