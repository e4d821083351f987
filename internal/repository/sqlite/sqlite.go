// Package sqlite implements the repository interfaces using SQLite as the
// storage backend, via the pure-Go modernc.org/sqlite driver.
//
// Every read-check-write sequence with an invariant attached (bid
// placement, listing close, watch toggle) runs inside a single
// transaction. SQLite has one writer at a time, so two concurrent bids on
// the same listing are strictly ordered: the loser observes the winner's
// price and is rejected.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath (":memory:" for tests), applies
// pragmas, and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows a single writer; one pooled connection serializes
	// transactions instead of failing lock upgrades with SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent, safe to run on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// winner_id is NULL until the listing closes with at least one bid.
	// Prices are integer cents so SQL comparisons and MAX stay exact.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price_cents INTEGER NOT NULL,
			category    TEXT NOT NULL DEFAULT 'None',
			photo_url   TEXT NOT NULL DEFAULT '',
			lister_id   TEXT NOT NULL REFERENCES users(id),
			winner_id   TEXT REFERENCES users(id),
			active      INTEGER NOT NULL DEFAULT 1,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_listings_active ON listings(active);
		CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category);
	`)
	if err != nil {
		return fmt.Errorf("creating listings table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS bids (
			id           TEXT PRIMARY KEY,
			bidder_id    TEXT NOT NULL REFERENCES users(id),
			listing_id   TEXT NOT NULL REFERENCES listings(id),
			amount_cents INTEGER NOT NULL,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_bids_listing_id ON bids(listing_id);
	`)
	if err != nil {
		return fmt.Errorf("creating bids table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			id           TEXT PRIMARY KEY,
			commenter_id TEXT NOT NULL REFERENCES users(id),
			listing_id   TEXT NOT NULL REFERENCES listings(id),
			text         TEXT NOT NULL,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_comments_listing_id ON comments(listing_id);
	`)
	if err != nil {
		return fmt.Errorf("creating comments table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS watchlist (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			listing_id TEXT NOT NULL REFERENCES listings(id)
		);
		CREATE INDEX IF NOT EXISTS idx_watchlist_user_id ON watchlist(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating watchlist table: %w", err)
	}

	return nil
}

// toCents converts a 2-decimal-place amount to integer cents for storage.
func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

// fromCents converts stored integer cents back to a decimal amount.
func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
