package tag

// FieldMap is an ordered mapping from field number (as a string, e.g. "35")
// to value. Insertion order is preserved so that encoding a decoded message
// reproduces the original field sequence.
//
// The zero value is not usable; call NewFieldMap.
//
// INVARIANT: keys are unique. Set on an existing key updates the value in
// place and keeps its original position.
type FieldMap struct {
	keys []string
	vals map[string]string
}

// NewFieldMap creates an empty FieldMap.
func NewFieldMap() *FieldMap {
	return &FieldMap{vals: make(map[string]string)}
}

// Set stores value under field. A new field is appended at the end; an
// existing field keeps its position and gets the new value.
func (m *FieldMap) Set(field, value string) {
	if _, ok := m.vals[field]; !ok {
		m.keys = append(m.keys, field)
	}
	m.vals[field] = value
}

// Get returns the value for field and whether it is present.
func (m *FieldMap) Get(field string) (string, bool) {
	v, ok := m.vals[field]
	return v, ok
}

// Value returns the value for field, or "" if absent.
func (m *FieldMap) Value(field string) string {
	return m.vals[field]
}

// Has reports whether field is present.
func (m *FieldMap) Has(field string) bool {
	_, ok := m.vals[field]
	return ok
}

// Delete removes field if present. Deleting an absent field is a no-op.
func (m *FieldMap) Delete(field string) {
	if _, ok := m.vals[field]; !ok {
		return
	}
	delete(m.vals, field)
	for i, k := range m.keys {
		if k == field {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Fields returns the field numbers in insertion order.
// The returned slice is a copy; mutating it does not affect the map.
func (m *FieldMap) Fields() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	return len(m.keys)
}

// Clone returns a deep copy preserving order.
func (m *FieldMap) Clone() *FieldMap {
	c := &FieldMap{
		keys: make([]string, len(m.keys)),
		vals: make(map[string]string, len(m.vals)),
	}
	copy(c.keys, m.keys)
	for k, v := range m.vals {
		c.vals[k] = v
	}
	return c
}

// Equal reports whether two maps hold the same fields with the same values
// in the same order.
func (m *FieldMap) Equal(other *FieldMap) bool {
	if other == nil || len(m.keys) != len(other.keys) {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k || other.vals[k] != m.vals[k] {
			return false
		}
	}
	return true
}
