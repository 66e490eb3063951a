// Package sqlite implements the repository interfaces on a single SQLite file.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so the binary needs
// no C toolchain. sqlx sits on top of database/sql and scans rows straight
// into the db-tagged structs of the model package.
//
// Opening a database never creates or changes tables. Schema and seed data
// come from the versioned migrations in migrate.go, run explicitly with
// `coffee-finder migrate` (or by serve when database.auto_migrate is set).
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/coffee-finder/internal/model"
)

// Options tune how the database file is opened.
type Options struct {
	// ForeignKeys makes SQLite enforce the declared references from
	// favorites and reviews to users and coffee_shops. When false (the
	// default) orphaned rows are tolerated: favoriting an unknown shop id
	// succeeds and deleting a shop leaves its favorites and reviews behind.
	ForeignKeys bool
}

// DB wraps the sqlx connection pool. Stores for each table are obtained with
// Shops, Users, Favorites and Reviews; they all share this pool.
type DB struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open opens (creating if needed) the SQLite database at path.
//
// Pragmas are passed in the DSN rather than executed once, because
// database/sql may open several connections and pragmas such as
// foreign_keys are per connection.
//
// ":memory:" is supported for tests. An in-memory database lives inside one
// connection, so the pool is limited to a single connection in that case.
func Open(path string, opts Options) (*DB, error) {
	conn, err := sqlx.Open("sqlite", dsn(path, opts))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if isMemory(path) {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	return &DB{conn: conn, now: time.Now}, nil
}

func dsn(path string, opts Options) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	if opts.ForeignKeys {
		q.Add("_pragma", "foreign_keys(1)")
	} else {
		q.Add("_pragma", "foreign_keys(0)")
	}
	if !isMemory(path) {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	return path + "?" + q.Encode()
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// SetClock replaces the clock used for created_at columns. Tests use it to
// produce distinct, ordered timestamps.
func (db *DB) SetClock(now func() time.Time) {
	db.now = now
}

func (db *DB) timestamp() string {
	return db.now().Format(model.TimestampLayout)
}

func (db *DB) Shops() *ShopStore         { return &ShopStore{db: db} }
func (db *DB) Users() *UserStore         { return &UserStore{db: db} }
func (db *DB) Favorites() *FavoriteStore { return &FavoriteStore{db: db} }
func (db *DB) Reviews() *ReviewStore     { return &ReviewStore{db: db} }

// isUniqueViolation reports whether err is SQLite's UNIQUE constraint error.
func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
