package settings

// mapping is an insertion-ordered map from identifiers to params. Overwriting
// a key keeps its position.
type mapping struct {
	keys   []string
	values map[string]Params
}

func newMapping() *mapping {
	return &mapping{values: map[string]Params{}}
}

func (m *mapping) set(key string, p Params) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = p
}

func (m *mapping) get(key string) (Params, bool) {
	p, ok := m.values[key]
	return p, ok
}

func (m *mapping) delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *mapping) list() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}
