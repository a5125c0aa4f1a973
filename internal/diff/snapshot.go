// Package diff compares keyed row snapshots taken from two snapshot
// stores and classifies per-row discrepancies.
package diff

// Snapshot is the in-memory materialization of one table's significant
// columns from one store, keyed by identity key. Key order is the order
// rows were first observed in; a row with an already-seen identity key
// replaces the stored values but keeps the key's original position.
type Snapshot struct {
	keys []string
	rows map[string][]any
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{rows: make(map[string][]any)}
}

// Put records values under key, overwriting any previous entry for the
// same key. It returns false when the key was already present.
func (s *Snapshot) Put(key string, values []any) bool {
	_, dup := s.rows[key]
	if !dup {
		s.keys = append(s.keys, key)
	}
	s.rows[key] = values
	return !dup
}

// Get returns the value tuple stored under key.
func (s *Snapshot) Get(key string) ([]any, bool) {
	values, ok := s.rows[key]
	return values, ok
}

// Keys returns the identity keys in first-observed order. The returned
// slice is shared with the snapshot and must not be mutated.
func (s *Snapshot) Keys() []string {
	return s.keys
}

// Len is the number of distinct identity keys in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.rows)
}
