package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	// sqlite driver for fixture databases.
	_ "modernc.org/sqlite"
)

// Schema statements for a minimal indexer snapshot store. The fixture
// tables carry the ingestion-time created_at/updated_at columns and the
// entities event_id join key on purpose: the comparison plan must not
// look at them.
var indexerSchema = []string{
	`CREATE TABLE events (
		id TEXT NOT NULL,
		keys TEXT,
		data TEXT,
		transaction_hash TEXT,
		executed_at TEXT,
		created_at TEXT DEFAULT ''
	)`,
	`CREATE TABLE entities (
		id TEXT NOT NULL,
		keys TEXT,
		event_id TEXT,
		executed_at TEXT,
		created_at TEXT DEFAULT '',
		updated_at TEXT DEFAULT ''
	)`,
	`CREATE TABLE transactions (
		id TEXT NOT NULL,
		transaction_hash TEXT,
		sender_address TEXT,
		calldata TEXT,
		max_fee TEXT,
		signature TEXT,
		nonce TEXT,
		transaction_type TEXT,
		executed_at TEXT
	)`,
	`CREATE TABLE balances (
		id TEXT NOT NULL,
		balance TEXT,
		account_address TEXT,
		contract_address TEXT,
		token_id TEXT
	)`,
	`CREATE TABLE tokens (
		id TEXT NOT NULL,
		contract_address TEXT,
		token_id TEXT,
		name TEXT,
		symbol TEXT,
		decimals INTEGER
	)`,
	`CREATE TABLE token_transfers (
		id TEXT NOT NULL,
		contract_address TEXT,
		from_address TEXT,
		to_address TEXT,
		amount INTEGER,
		token_id TEXT,
		executed_at TEXT
	)`,
}

// CreateStore creates a sqlite database under a temporary directory,
// executes the given statements against it, and returns its path.
func CreateStore(t *testing.T, name string, stmts ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open fixture database: %v", err)
	}
	defer db.Close()

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to execute fixture statement %q: %v", stmt, err)
		}
	}
	return path
}

// CreateIndexerStore creates a fixture snapshot store with the full
// indexer schema, then executes any extra statements (typically
// INSERTs) against it.
func CreateIndexerStore(t *testing.T, name string, stmts ...string) string {
	t.Helper()
	all := make([]string, 0, len(indexerSchema)+len(stmts))
	all = append(all, indexerSchema...)
	all = append(all, stmts...)
	return CreateStore(t, name, all...)
}
