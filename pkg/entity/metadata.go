package entity

// Metadata is an ordered multimap for provenance and intermediate values.
// Keys keep insertion order; a key may hold several values in the order they
// were added.
type Metadata struct {
	keys   []string
	values map[string][]any
}

// NewMetadata creates an empty metadata bag.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string][]any)}
}

// Add appends a value under key, preserving multiplicity.
func (m *Metadata) Add(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], value)
}

// Set replaces any existing values under key with a single value.
func (m *Metadata) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = []any{value}
}

// Has reports whether key holds at least one value.
func (m *Metadata) Has(key string) bool {
	return len(m.values[key]) > 0
}

// Get returns all values under key in insertion order.
func (m *Metadata) Get(key string) []any {
	return m.values[key]
}

// First returns the first value under key, false when absent.
func (m *Metadata) First(key string) (any, bool) {
	vs := m.values[key]
	if len(vs) == 0 {
		return nil, false
	}
	return vs[0], true
}

// FirstFloat returns the first value under key as float64, false when absent
// or not a number.
func (m *Metadata) FirstFloat(key string) (float64, bool) {
	v, ok := m.First(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// FirstString returns the first value under key as string, false when absent
// or not a string.
func (m *Metadata) FirstString(key string) (string, bool) {
	v, ok := m.First(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Floats returns all values under key that are numbers, in insertion order.
func (m *Metadata) Floats(key string) []float64 {
	vs := m.values[key]
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		switch n := v.(type) {
		case float64:
			out = append(out, n)
		case int:
			out = append(out, float64(n))
		}
	}
	return out
}

// Remove drops all values under key.
func (m *Metadata) Remove(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in first-insertion order.
func (m *Metadata) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}
