package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"paxboard/domain/core"
	"paxboard/domain/report"
	"paxboard/ports"
)

// reportRepository implements ports.ReportArchive over report_snapshots
type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report snapshot repository
func NewReportRepository(db *sqlx.DB) ports.ReportArchive {
	return &reportRepository{db: db}
}

type snapshotRow struct {
	ID          string    `db:"id"`
	Source      string    `db:"source"`
	DatasetHash string    `db:"dataset_hash"`
	CohortHash  string    `db:"cohort_hash"`
	RowCount    int       `db:"row_count"`
	Criteria    []byte    `db:"criteria"`
	Report      []byte    `db:"report"`
	CreatedAt   time.Time `db:"created_at"`
}

const snapshotColumns = `id, source, dataset_hash, cohort_hash, row_count, criteria, report, created_at`

// Save inserts a snapshot
func (r *reportRepository) Save(ctx context.Context, s *report.Snapshot) error {
	criteriaJSON, err := json.Marshal(s.Criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}
	reportJSON, err := json.Marshal(s.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `INSERT INTO report_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		s.ID.String(), s.Source, s.DatasetHash.String(), s.CohortHash.String(),
		s.Report.Shape.Rows, criteriaJSON, reportJSON, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Get retrieves a snapshot by its ID
func (r *reportRepository) Get(ctx context.Context, id core.SnapshotID) (*report.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM report_snapshots WHERE id = $1`

	var row snapshotRow
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrSnapshotNotFound, id)
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return row.toSnapshot()
}

// List retrieves snapshots newest first with pagination
func (r *reportRepository) List(ctx context.Context, limit, offset int) ([]*report.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM report_snapshots
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	var rows []snapshotRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	snapshots := make([]*report.Snapshot, 0, len(rows))
	for _, row := range rows {
		s, err := row.toSnapshot()
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}

func (row snapshotRow) toSnapshot() (*report.Snapshot, error) {
	s := &report.Snapshot{
		ID:          core.SnapshotID(row.ID),
		Source:      row.Source,
		DatasetHash: core.DatasetHash(row.DatasetHash),
		CohortHash:  core.CohortHash(row.CohortHash),
		CreatedAt:   row.CreatedAt,
	}
	if len(row.Criteria) > 0 {
		if err := json.Unmarshal(row.Criteria, &s.Criteria); err != nil {
			return nil, fmt.Errorf("failed to unmarshal criteria of %s: %w", row.ID, err)
		}
	}
	if len(row.Report) > 0 {
		if err := json.Unmarshal(row.Report, &s.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report of %s: %w", row.ID, err)
		}
	}
	return s, nil
}
