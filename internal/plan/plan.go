// Package plan declares which tables and columns define equivalence
// between two snapshot stores. Changing what "equivalent" means for a
// table is an edit here, never in the differ.
package plan

import (
	"fmt"
	"regexp"
	"sort"
)

// TableSpec names a table and the ordered columns that define
// equivalence for it. The first column is the row's identity key and is
// expected to be unique within one snapshot. Columns left off the list
// (ingestion timestamps, internal join keys) are not part of the
// equivalence definition.
type TableSpec struct {
	Name    string
	Columns []string
}

// Key returns the identity key column for the table.
func (t TableSpec) Key() string {
	if len(t.Columns) == 0 {
		return ""
	}
	return t.Columns[0]
}

// Plan is an ordered registry of table specs. It is an immutable value:
// extension methods return a new plan. The driver compares tables in
// declaration order.
type Plan struct {
	specs []TableSpec
}

// New creates a plan from the given specs, preserving order.
func New(specs ...TableSpec) Plan {
	return Plan{specs: specs}
}

// Specs returns the table specs in declaration order.
func (p Plan) Specs() []TableSpec {
	return p.specs
}

// Len is the number of planned tables.
func (p Plan) Len() int {
	return len(p.specs)
}

// WithTables returns a copy of p with extra table specs merged in. A
// name matching an existing spec replaces that spec's column list in
// place; new names are appended in sorted name order, since map
// iteration order is not stable.
func (p Plan) WithTables(extra map[string][]string) Plan {
	if len(extra) == 0 {
		return p
	}

	specs := make([]TableSpec, len(p.specs))
	copy(specs, p.specs)

	seen := make(map[string]bool, len(specs))
	for i, spec := range specs {
		seen[spec.Name] = true
		if columns, ok := extra[spec.Name]; ok {
			specs[i] = TableSpec{Name: spec.Name, Columns: columns}
		}
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		specs = append(specs, TableSpec{Name: name, Columns: extra[name]})
	}

	return Plan{specs: specs}
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that the plan is non-empty, table names are unique,
// every spec has at least an identity key column, and all names are
// plain identifiers safe to interpolate into a projection.
func (p Plan) Validate() error {
	if len(p.specs) == 0 {
		return fmt.Errorf("plan has no tables")
	}

	names := make(map[string]bool, len(p.specs))
	for _, spec := range p.specs {
		if !identPattern.MatchString(spec.Name) {
			return fmt.Errorf("invalid table name %q", spec.Name)
		}
		if names[spec.Name] {
			return fmt.Errorf("duplicate table %q in plan", spec.Name)
		}
		names[spec.Name] = true

		if len(spec.Columns) == 0 {
			return fmt.Errorf("table %q has no columns", spec.Name)
		}
		cols := make(map[string]bool, len(spec.Columns))
		for _, col := range spec.Columns {
			if !identPattern.MatchString(col) {
				return fmt.Errorf("table %q: invalid column name %q", spec.Name, col)
			}
			if cols[col] {
				return fmt.Errorf("table %q: duplicate column %q", spec.Name, col)
			}
			cols[col] = true
		}
	}
	return nil
}
