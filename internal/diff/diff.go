package diff

// Kind classifies a discrepancy between two snapshots of the same table.
type Kind string

const (
	// KindValueMismatch means the key exists in both snapshots with
	// different value tuples.
	KindValueMismatch Kind = "value_mismatch"

	// KindMissingInB means the key exists only in snapshot A.
	KindMissingInB Kind = "missing_in_b"

	// KindMissingInA means the key exists only in snapshot B.
	KindMissingInA Kind = "missing_in_a"
)

// Discrepancy is one classified difference for one identity key. Value
// tuples are populated only for value mismatches.
type Discrepancy struct {
	Kind    Kind   `json:"kind"`
	Key     string `json:"key"`
	ValuesA []any  `json:"values_a,omitempty"`
	ValuesB []any  `json:"values_b,omitempty"`
}

// TableReport is the full comparison outcome for one table across two
// stores. Discrepancies are ordered: A-perspective entries (missing in
// B, value mismatches) in A's key order first, then B-perspective
// entries (missing in A) in B's key order.
type TableReport struct {
	Table         string        `json:"table"`
	CountA        int           `json:"rows_a"`
	CountB        int           `json:"rows_b"`
	Discrepancies []Discrepancy `json:"discrepancies,omitempty"`
	Equal         bool          `json:"equal"`
}

// Diff compares two snapshots of table and reports every discrepancy.
// It is a pure function: neither snapshot is modified and the report is
// never amended after it is returned.
//
// Value tuples are compared element-wise using native equality of the
// scanned values; there is no type coercion, so an integer 1 and the
// string "1" are a mismatch.
func Diff(a, b *Snapshot, table string) *TableReport {
	report := &TableReport{
		Table:  table,
		CountA: a.Len(),
		CountB: b.Len(),
	}

	for _, key := range a.Keys() {
		valuesA, _ := a.Get(key)
		valuesB, ok := b.Get(key)
		if !ok {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Kind: KindMissingInB,
				Key:  key,
			})
			continue
		}
		if !tuplesEqual(valuesA, valuesB) {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Kind:    KindValueMismatch,
				Key:     key,
				ValuesA: valuesA,
				ValuesB: valuesB,
			})
		}
	}

	for _, key := range b.Keys() {
		if _, ok := a.Get(key); !ok {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Kind: KindMissingInA,
				Key:  key,
			})
		}
	}

	report.Equal = len(report.Discrepancies) == 0
	return report
}

// tuplesEqual reports element-wise equality of two value tuples. Values
// are the comparable scalars produced by scanning (string, int64,
// float64, bool, nil); []byte is normalized to string before storage.
func tuplesEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
