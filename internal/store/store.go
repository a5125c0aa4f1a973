// Package store provides read-only access to snapshot databases
// produced by the indexing pipeline.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/snapdiff/internal/diff"

	// sqlite driver for snapshot database access.
	_ "modernc.org/sqlite"
)

// AccessError reports a failure to read from a store: the path could
// not be opened, or a table or column in a query does not match the
// store's schema.
type AccessError struct {
	Store string
	Table string
	Err   error
}

func (e *AccessError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("store %s: table %s: %v", e.Store, e.Table, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Store, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// Store is a path-addressed snapshot database. Every operation opens a
// transient read-only connection and closes it before returning; no
// connection state is kept between calls and connections are never
// shared across stores or tables.
type Store struct {
	path   string
	logger *slog.Logger
}

// New validates that a snapshot database exists at path and can be
// opened, then returns a handle for it. The logger may be nil.
func New(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &AccessError{Store: path, Err: err}
	}

	s := &Store{path: path, logger: logger}
	db, err := s.open(context.Background())
	if err != nil {
		return nil, &AccessError{Store: path, Err: err}
	}
	_ = db.Close()

	return s, nil
}

// Path returns the store's database path.
func (s *Store) Path() string {
	return s.path
}

// open establishes a transient read-only connection.
func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

// HasTable reports whether a table exists in the store. Absence is a
// valid, expected outcome, not an error: two stores at different schema
// migration stages are a normal input.
func (s *Store) HasTable(ctx context.Context, table string) (bool, error) {
	db, err := s.open(ctx)
	if err != nil {
		return false, &AccessError{Store: s.path, Table: table, Err: err}
	}
	defer func() { _ = db.Close() }()

	var name string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &AccessError{Store: s.path, Table: table, Err: err}
	}
	return true, nil
}

// FetchRows materializes a projection of table over exactly the given
// columns, in the given order. The first column is the identity key and
// becomes the snapshot's map key; the remaining values form the row's
// value tuple. Result row order carries no meaning — callers must rely
// on key-based lookup only.
//
// If the store contains duplicate identity key values, later rows
// silently overwrite earlier ones in the snapshot. That mirrors the
// observable behavior downstream consumers depend on; see the plan
// package for the open question around failing fast instead.
func (s *Store) FetchRows(ctx context.Context, table string, columns []string) (*diff.Snapshot, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, &AccessError{Store: s.path, Table: table, Err: err}
	}
	defer func() { _ = db.Close() }()

	snap, err := fetchRows(ctx, db, table, columns, s.logger)
	if err != nil {
		return nil, &AccessError{Store: s.path, Table: table, Err: err}
	}
	return snap, nil
}

// fetchRows runs the projection on an open connection. Split out so the
// query and scan paths can be tested against sqlmock.
func fetchRows(ctx context.Context, db *sql.DB, table string, columns []string, logger *slog.Logger) (*diff.Snapshot, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, quoteIdents(columns), quoteIdent(table)) //nolint:gosec // identifiers validated by plan.Validate
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute projection: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snap := diff.NewSnapshot()
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		// Normalize []byte to string so tuples hold comparable scalars.
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}

		key := fmt.Sprintf("%v", values[0])
		if !snap.Put(key, values[1:]) {
			logger.Debug("duplicate identity key overwritten",
				"table", table, "key", key)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return snap, nil
}

// CountRows returns the raw row count of table, independent of identity
// key uniqueness.
func (s *Store) CountRows(ctx context.Context, table string) (int64, error) {
	db, err := s.open(ctx)
	if err != nil {
		return 0, &AccessError{Store: s.path, Table: table, Err: err}
	}
	defer func() { _ = db.Close() }()

	var n int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteIdent(table)) //nolint:gosec // identifier validated by plan.Validate
	if err := db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, &AccessError{Store: s.path, Table: table, Err: err}
	}
	return n, nil
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}

func quoteIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteIdent(name)
	}
	return strings.Join(quoted, ", ")
}
