package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"paxboard/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createReportSnapshotsTable(ctx, db); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to create report_snapshots table"))
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to create indexes"))
	}

	return nil
}

func (r *MigrationRunner) createReportSnapshotsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS report_snapshots (
			id UUID PRIMARY KEY,
			source TEXT NOT NULL,
			dataset_hash VARCHAR(64) NOT NULL,
			cohort_hash VARCHAR(64) NOT NULL,
			row_count INTEGER NOT NULL DEFAULT 0,
			criteria JSONB,
			report JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_report_snapshots_created_at ON report_snapshots(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_report_snapshots_cohort ON report_snapshots(dataset_hash, cohort_hash)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
