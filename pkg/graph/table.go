package graph

import "slices"

// table is a map that remembers insertion order.
type table[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

func newTable[K comparable, V any]() *table[K, V] {
	return &table[K, V]{vals: make(map[K]V)}
}

func (t *table[K, V]) get(k K) (V, bool) {
	v, ok := t.vals[k]
	return v, ok
}

func (t *table[K, V]) has(k K) bool {
	_, ok := t.vals[k]
	return ok
}

// set inserts or overwrites; new keys go to the end.
func (t *table[K, V]) set(k K, v V) {
	if _, ok := t.vals[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.vals[k] = v
}

func (t *table[K, V]) delete(k K) {
	if _, ok := t.vals[k]; !ok {
		return
	}
	delete(t.vals, k)
	if i := slices.Index(t.keys, k); i >= 0 {
		t.keys = slices.Delete(t.keys, i, i+1)
	}
}

// rekey moves the value stored under from to to, keeping its position.
func (t *table[K, V]) rekey(from, to K, v V) {
	i := slices.Index(t.keys, from)
	if i < 0 {
		return
	}
	delete(t.vals, from)
	t.keys[i] = to
	t.vals[to] = v
}

func (t *table[K, V]) len() int { return len(t.keys) }

func (t *table[K, V]) ordered() []K { return slices.Clone(t.keys) }
