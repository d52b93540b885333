// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — works everywhere Go works.
//
// The three tables mirror the three document collections the API exposes:
// users, restaurants, reviews. Rows are keyed by xid strings rather than
// autoincrement integers, so identifiers are opaque and stable across
// exports/imports.
//
// NO FOREIGN KEYS — ON PURPOSE:
// reviews.restaurant_id is a soft reference. A review may be created for a
// restaurant id that doesn't exist, and deleting a restaurant leaves its
// reviews in place. The rating aggregator tolerates both: recomputing the
// rating of a missing restaurant just updates zero rows.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init().
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. Create it once in server.New and pass it down; it is safe for
// concurrent use by every request handler.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/belfast_eats.db"  → file-based database (persistent)
//   - ":memory:"              → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path or permissions issue
	// surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is happening — default
	// SQLite locks the whole file during writes, which hurts a web server.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Wherever you call New(), defer Close().
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// hygiene_rating is nullable: NULL means "no reviews and no manual
	// rating". tags holds a JSON array — the column is a document field, not
	// something we ever query by.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS restaurants (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			address        TEXT NOT NULL DEFAULT '',
			postcode       TEXT NOT NULL DEFAULT '',
			hygiene_rating REAL,
			cuisine        TEXT NOT NULL DEFAULT '',
			tags           TEXT NOT NULL DEFAULT '[]',
			created_by     TEXT NOT NULL DEFAULT '',
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_restaurants_cuisine ON restaurants(cuisine);
		CREATE INDEX IF NOT EXISTS idx_restaurants_hygiene ON restaurants(hygiene_rating);
	`)
	if err != nil {
		return fmt.Errorf("creating restaurants table: %w", err)
	}

	// restaurant_id is intentionally NOT a foreign key (see package comment).
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS reviews (
			id            TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL,
			user_id       TEXT NOT NULL,
			rating        INTEGER NOT NULL,
			title         TEXT NOT NULL DEFAULT '',
			body          TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_reviews_restaurant_id ON reviews(restaurant_id);
	`)
	if err != nil {
		return fmt.Errorf("creating reviews table: %w", err)
	}

	return nil
}
