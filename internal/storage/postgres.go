package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore keeps posted records in a posted_items table. Useful when the
// bot runs on ephemeral CI runners where a JSON file would not survive.
type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration
}

// NewPostgresStore connects, verifies the connection and ensures the schema.
func NewPostgresStore(connString string, ttlHours int) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	ps := &PostgresStore{db: db, ttl: time.Duration(ttlHours) * time.Hour}
	if err := ps.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS posted_items (
		key       TEXT PRIMARY KEY,
		kind      TEXT NOT NULL,
		title     TEXT NOT NULL DEFAULT '',
		host      TEXT NOT NULL DEFAULT '',
		posted_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_posted_items_posted_at ON posted_items (posted_at);
	CREATE INDEX IF NOT EXISTS idx_posted_items_kind ON posted_items (kind, posted_at);`
	_, err := ps.db.Exec(schema)
	return err
}

// Contains reports whether the key was posted inside the TTL.
func (ps *PostgresStore) Contains(key string) bool {
	var exists bool
	err := ps.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM posted_items WHERE key = $1 AND posted_at > now() - $2::interval)`,
		key, fmt.Sprintf("%d hours", int(ps.ttl.Hours())),
	).Scan(&exists)
	if err != nil {
		// Treat lookup failure as unseen; the caller surfaces store errors
		// on the write path.
		return false
	}
	return exists
}

// Mark upserts a posted key.
func (ps *PostgresStore) Mark(key, kind, title, host string) error {
	_, err := ps.db.Exec(
		`INSERT INTO posted_items (key, kind, title, host, posted_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (key) DO UPDATE SET posted_at = now()`,
		key, kind, title, host,
	)
	if err != nil {
		return fmt.Errorf("mark posted: %w", err)
	}
	return nil
}

// LastHost returns the host of the most recent record of a kind.
func (ps *PostgresStore) LastHost(kind string) string {
	var host string
	err := ps.db.QueryRow(
		`SELECT host FROM posted_items WHERE kind = $1 ORDER BY posted_at DESC LIMIT 1`,
		kind,
	).Scan(&host)
	if err != nil {
		return ""
	}
	return host
}

// Prune deletes records older than the TTL.
func (ps *PostgresStore) Prune() error {
	_, err := ps.db.Exec(
		`DELETE FROM posted_items WHERE posted_at < now() - $1::interval`,
		fmt.Sprintf("%d hours", int(ps.ttl.Hours())),
	)
	if err != nil {
		return fmt.Errorf("prune posted items: %w", err)
	}
	return nil
}

// Close prunes and closes the connection.
func (ps *PostgresStore) Close() error {
	if err := ps.Prune(); err != nil {
		ps.db.Close()
		return err
	}
	return ps.db.Close()
}
