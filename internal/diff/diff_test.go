package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotFrom(t *testing.T, rows map[string][]any, order []string) *Snapshot {
	t.Helper()
	s := NewSnapshot()
	for _, key := range order {
		s.Put(key, rows[key])
	}
	return s
}

func TestSnapshot_PutPreservesFirstPosition(t *testing.T) {
	s := NewSnapshot()

	require.True(t, s.Put("a", []any{1}))
	require.True(t, s.Put("b", []any{2}))
	require.False(t, s.Put("a", []any{3}), "duplicate key should report false")

	assert.Equal(t, []string{"a", "b"}, s.Keys(), "duplicate key must keep its original position")
	values, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, []any{3}, values, "later values overwrite earlier ones")
	assert.Equal(t, 2, s.Len())
}

func TestDiff_Idempotence(t *testing.T) {
	s := snapshotFrom(t, map[string][]any{
		"e1": {"k1", "d1"},
		"e2": {"k2", "d2"},
		"e3": {nil, "d3"},
	}, []string{"e1", "e2", "e3"})

	report := Diff(s, s, "events")

	assert.True(t, report.Equal)
	assert.Empty(t, report.Discrepancies)
	assert.Equal(t, 3, report.CountA)
	assert.Equal(t, 3, report.CountB)
}

func TestDiff_ValueMismatch(t *testing.T) {
	a := snapshotFrom(t, map[string][]any{
		"tx1": {"0xc", "0xa", "0xb", int64(100), "1"},
	}, []string{"tx1"})
	b := snapshotFrom(t, map[string][]any{
		"tx1": {"0xc", "0xa", "0xb", int64(200), "1"},
	}, []string{"tx1"})

	report := Diff(a, b, "token_transfers")

	require.Len(t, report.Discrepancies, 1)
	d := report.Discrepancies[0]
	assert.Equal(t, KindValueMismatch, d.Kind)
	assert.Equal(t, "tx1", d.Key)
	assert.Equal(t, []any{"0xc", "0xa", "0xb", int64(100), "1"}, d.ValuesA)
	assert.Equal(t, []any{"0xc", "0xa", "0xb", int64(200), "1"}, d.ValuesB)
	assert.False(t, report.Equal)
}

func TestDiff_NoTypeCoercion(t *testing.T) {
	a := snapshotFrom(t, map[string][]any{"k": {int64(1)}}, []string{"k"})
	b := snapshotFrom(t, map[string][]any{"k": {"1"}}, []string{"k"})

	report := Diff(a, b, "tokens")

	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, KindValueMismatch, report.Discrepancies[0].Kind)
}

func TestDiff_MissingKeys(t *testing.T) {
	a := snapshotFrom(t, map[string][]any{
		"e1":  {"k1"},
		"e99": {"k99"},
	}, []string{"e1", "e99"})
	b := snapshotFrom(t, map[string][]any{
		"e1": {"k1"},
		"e2": {"k2"},
	}, []string{"e1", "e2"})

	report := Diff(a, b, "events")

	require.Len(t, report.Discrepancies, 2)
	assert.Equal(t, KindMissingInB, report.Discrepancies[0].Kind)
	assert.Equal(t, "e99", report.Discrepancies[0].Key)
	assert.Equal(t, KindMissingInA, report.Discrepancies[1].Kind)
	assert.Equal(t, "e2", report.Discrepancies[1].Key)
	assert.False(t, report.Equal)
}

// Swapping argument order swaps every missing_in_a/missing_in_b label
// and swaps value tuples in mismatches, leaving everything else alike.
func TestDiff_DirectionSymmetry(t *testing.T) {
	a := snapshotFrom(t, map[string][]any{
		"only-a": {"x"},
		"both":   {int64(1)},
	}, []string{"only-a", "both"})
	b := snapshotFrom(t, map[string][]any{
		"both":   {int64(2)},
		"only-b": {"y"},
	}, []string{"both", "only-b"})

	forward := Diff(a, b, "balances")
	backward := Diff(b, a, "balances")

	require.Len(t, forward.Discrepancies, 3)
	require.Len(t, backward.Discrepancies, 3)

	count := func(r *TableReport, kind Kind) int {
		n := 0
		for _, d := range r.Discrepancies {
			if d.Kind == kind {
				n++
			}
		}
		return n
	}
	assert.Equal(t, count(forward, KindMissingInB), count(backward, KindMissingInA))
	assert.Equal(t, count(forward, KindMissingInA), count(backward, KindMissingInB))

	var fwd, bwd Discrepancy
	for _, d := range forward.Discrepancies {
		if d.Kind == KindValueMismatch {
			fwd = d
		}
	}
	for _, d := range backward.Discrepancies {
		if d.Kind == KindValueMismatch {
			bwd = d
		}
	}
	assert.Equal(t, fwd.Key, bwd.Key)
	assert.Equal(t, fwd.ValuesA, bwd.ValuesB, "value tuples must swap with the arguments")
	assert.Equal(t, fwd.ValuesB, bwd.ValuesA)
}

// Discrepancies keep the two-pass grouping: all A-perspective entries
// in A's insertion order, then B-perspective entries in B's order.
func TestDiff_OrderingContract(t *testing.T) {
	a := snapshotFrom(t, map[string][]any{
		"a1": {"x"},
		"m1": {int64(1)},
		"a2": {"y"},
	}, []string{"a1", "m1", "a2"})
	b := snapshotFrom(t, map[string][]any{
		"b2": {"q"},
		"m1": {int64(2)},
		"b1": {"p"},
	}, []string{"b2", "m1", "b1"})

	report := Diff(a, b, "entities")

	require.Len(t, report.Discrepancies, 5)
	keys := make([]string, len(report.Discrepancies))
	kinds := make([]Kind, len(report.Discrepancies))
	for i, d := range report.Discrepancies {
		keys[i] = d.Key
		kinds[i] = d.Kind
	}
	assert.Equal(t, []string{"a1", "m1", "a2", "b2", "b1"}, keys)
	assert.Equal(t, []Kind{
		KindMissingInB, KindValueMismatch, KindMissingInB,
		KindMissingInA, KindMissingInA,
	}, kinds)
}

func TestDiff_EmptySnapshots(t *testing.T) {
	report := Diff(NewSnapshot(), NewSnapshot(), "events")

	assert.True(t, report.Equal)
	assert.Zero(t, report.CountA)
	assert.Zero(t, report.CountB)
}

func TestDiff_TupleLengthMismatch(t *testing.T) {
	a := snapshotFrom(t, map[string][]any{"k": {"x", "y"}}, []string{"k"})
	b := snapshotFrom(t, map[string][]any{"k": {"x"}}, []string{"k"})

	report := Diff(a, b, "events")

	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, KindValueMismatch, report.Discrepancies[0].Kind)
}
