package plan

// Default returns the comparison plan for indexer snapshot stores.
//
// Column lists are the contract surface for what "equivalent" means per
// table. Ingestion-time created_at/updated_at columns are excluded
// everywhere: they record when a row was indexed, not what it says. The
// entities event_id column is an internal join key and is likewise
// excluded, since two correct runs assign event ids in arrival order.
func Default() Plan {
	return New(
		TableSpec{
			Name:    "events",
			Columns: []string{"id", "keys", "data", "transaction_hash", "executed_at"},
		},
		TableSpec{
			Name:    "entities",
			Columns: []string{"id", "keys", "executed_at"},
		},
		TableSpec{
			Name: "transactions",
			Columns: []string{
				"id", "transaction_hash", "sender_address", "calldata",
				"max_fee", "signature", "nonce", "transaction_type", "executed_at",
			},
		},
		TableSpec{
			Name:    "balances",
			Columns: []string{"id", "balance", "account_address", "contract_address", "token_id"},
		},
		TableSpec{
			Name:    "tokens",
			Columns: []string{"id", "contract_address", "token_id", "name", "symbol", "decimals"},
		},
		TableSpec{
			Name: "token_transfers",
			Columns: []string{
				"id", "contract_address", "from_address", "to_address",
				"amount", "token_id", "executed_at",
			},
		},
	)
}
