// journal/schema.go
package journal

// DefaultKey is the key the journal snapshot is stored under.
const DefaultKey = "trade_journal_data"

const Schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at DATETIME NOT NULL
);
`
