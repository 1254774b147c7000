package database

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// migration is one versioned, idempotent schema step. Applied versions are
// recorded in schema_migrations so startup can re-run the list safely.
type migration struct {
	Version    int
	Name       string
	Statements []string
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id SERIAL PRIMARY KEY,
				username TEXT UNIQUE NOT NULL,
				password TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'admin',
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS candidates (
				id SERIAL PRIMARY KEY,
				intern_id TEXT UNIQUE,
				name TEXT NOT NULL,
				college TEXT,
				department TEXT,
				year TEXT,
				start_date TEXT,
				end_date TEXT,
				phone TEXT,
				email TEXT,
				status TEXT NOT NULL DEFAULT 'Active',
				mentor TEXT,
				referred_by TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			// candidate_id is a weak reference: audit rows must survive a
			// full-table resync of candidates, so no foreign key here.
			`CREATE TABLE IF NOT EXISTS extensions (
				id UUID PRIMARY KEY,
				candidate_id INTEGER NOT NULL,
				old_end_date TEXT,
				new_end_date TEXT NOT NULL,
				reason TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		Version: 2,
		Name:    "add_qualification",
		Statements: []string{
			`ALTER TABLE candidates ADD COLUMN IF NOT EXISTS qualification TEXT`,
		},
	},
	{
		Version: 3,
		Name:    "add_source",
		Statements: []string{
			`ALTER TABLE candidates ADD COLUMN IF NOT EXISTS source TEXT NOT NULL DEFAULT 'manual'`,
		},
	},
	{
		Version: 4,
		Name:    "candidate_indexes",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_candidates_status ON candidates (status)`,
			`CREATE INDEX IF NOT EXISTS idx_candidates_created_at ON candidates (created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_extensions_candidate_id ON extensions (candidate_id)`,
		},
	},
}

// RunMigrations applies all unapplied migrations in order, each inside its
// own transaction.
func RunMigrations(db *sql.DB) error {
	logrus.Info("Running database migrations...")

	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"version": m.Version,
			"name":    m.Name,
		}).Info("Applied migration")
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

func applyMigration(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}

	for _, stmt := range m.Statements {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}

	return tx.Commit()
}
