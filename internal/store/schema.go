package store

import (
	"database/sql"
	"fmt"
)

// Schema version tracking
const currentSchemaVersion = 1

// initializeSchema creates all tables for a new database
func (s *Store) initializeSchema() error {
	return s.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER NOT NULL
			)
		`); err != nil {
			return fmt.Errorf("failed to create schema_version table: %w", err)
		}

		if _, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS snapshots (
				fingerprint TEXT PRIMARY KEY,
				created_at  TEXT NOT NULL,
				model_count INTEGER NOT NULL,
				payload     BLOB NOT NULL
			)
		`); err != nil {
			return fmt.Errorf("failed to create snapshots table: %w", err)
		}

		if _, err := tx.Exec(`
			CREATE INDEX IF NOT EXISTS idx_snapshots_created_at
			ON snapshots(created_at)
		`); err != nil {
			return fmt.Errorf("failed to create snapshots index: %w", err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion,
		); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}

		s.logger.Info("Snapshot store schema initialized", map[string]interface{}{
			"version": currentSchemaVersion,
		})
		return nil
	})
}

// runMigrations runs any pending schema migrations
func (s *Store) runMigrations() error {
	var version int
	err := s.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return s.initializeSchema()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version == currentSchemaVersion {
		return nil
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported %d",
			version, currentSchemaVersion)
	}

	// Migrations run sequentially as the schema evolves
	return nil
}
