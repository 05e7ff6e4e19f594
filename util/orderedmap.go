// Package util has small containers shared by the netcdf packages.
package util

// OrderedMap is a string-keyed map that remembers insertion order. Attribute
// sets use it so names list in the order they were defined, the way ncdump
// prints them.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: map[string]V{}}
}

// Set adds or replaces a value. Replacing keeps the key's original position.
func (om *OrderedMap[V]) Set(key string, val V) {
	if _, has := om.values[key]; !has {
		om.keys = append(om.keys, key)
	}
	om.values[key] = val
}

func (om *OrderedMap[V]) Get(key string) (val V, has bool) {
	val, has = om.values[key]
	return
}

func (om *OrderedMap[V]) Has(key string) bool {
	_, has := om.values[key]
	return has
}

func (om *OrderedMap[V]) Len() int {
	return len(om.keys)
}

// Keys returns the keys in insertion order. The slice is shared; callers
// must not modify it.
func (om *OrderedMap[V]) Keys() []string {
	return om.keys
}
