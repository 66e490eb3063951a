package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PasswordHasher hashes the seeded admin password. auth.PasswordService
// satisfies it.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// SeedOptions controls the data migrations.
type SeedOptions struct {
	// DemoShops inserts the nine demo coffee shops.
	DemoShops bool
	// AdminEmail and AdminPassword create the demo administrator.
	// An empty AdminEmail skips the step.
	AdminEmail    string
	AdminPassword string
	Hasher        PasswordHasher
}

// migration is one schema or data step. Each runs in its own transaction
// together with the insert into schema_migrations, so a failed step leaves
// no trace and is retried by the next Migrate call.
type migration struct {
	version int
	name    string
	up      func(ctx context.Context, db *DB, tx *sqlx.Tx, seed SeedOptions) error
}

var migrations = []migration{
	{version: 1, name: "create schema", up: createSchema},
	{version: 2, name: "seed demo shops", up: seedShops},
	{version: 3, name: "seed admin user", up: seedAdmin},
}

// LatestVersion is the schema version after all migrations have run.
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at TEXT NOT NULL
);`

// Migrate applies every pending migration in version order and returns how
// many ran. Running it on an up-to-date database does nothing.
func (db *DB) Migrate(ctx context.Context, seed SeedOptions) (int, error) {
	if _, err := db.conn.ExecContext(ctx, ledgerSchema); err != nil {
		return 0, fmt.Errorf("sqlite: creating migration ledger: %w", err)
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	ran := 0
	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := db.apply(ctx, m, seed); err != nil {
			return ran, fmt.Errorf("sqlite: migration %d (%s): %w", m.version, m.name, err)
		}
		ran++
	}
	return ran, nil
}

func (db *DB) apply(ctx context.Context, m migration, seed SeedOptions) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	if err := m.up(ctx, db, tx, seed); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
		m.version, m.name, db.timestamp(),
	); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}

	return tx.Commit()
}

// PendingMigrations returns how many migrations have not been applied yet.
func (db *DB) PendingMigrations(ctx context.Context) (int, error) {
	var exists int
	err := db.conn.GetContext(ctx, &exists,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking migration ledger: %w", err)
	}
	if exists == 0 {
		return len(migrations), nil
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	pending := 0
	for _, m := range migrations {
		if !applied[m.version] {
			pending++
		}
	}
	return pending, nil
}

func (db *DB) appliedVersions(ctx context.Context) (map[int]bool, error) {
	var versions []int
	if err := db.conn.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations`); err != nil {
		return nil, fmt.Errorf("sqlite: reading migration ledger: %w", err)
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func createSchema(ctx context.Context, _ *DB, tx *sqlx.Tx, _ SeedOptions) error {
	_, err := tx.ExecContext(ctx, schema)
	return err
}

func seedShops(ctx context.Context, _ *DB, tx *sqlx.Tx, seed SeedOptions) error {
	if !seed.DemoShops {
		return nil
	}
	for _, s := range demoShops {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO coffee_shops (name, address, lat, lon, description, link)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			s.Name, s.Address, s.Lat, s.Lon, s.Description, s.Link,
		)
		if err != nil {
			return fmt.Errorf("inserting shop %q: %w", s.Name, err)
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, db *DB, tx *sqlx.Tx, seed SeedOptions) error {
	if seed.AdminEmail == "" {
		return nil
	}
	if seed.Hasher == nil {
		return errors.New("no password hasher configured for the admin user")
	}

	hash, err := seed.Hasher.Hash(seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, is_admin, created_at) VALUES (?, ?, 1, ?)`,
		seed.AdminEmail, hash, db.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("inserting admin user: %w", err)
	}
	return nil
}
