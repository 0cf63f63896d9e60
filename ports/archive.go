package ports

import (
	"context"

	"paxboard/domain/core"
	"paxboard/domain/report"
)

// ReportArchive persists report snapshots
type ReportArchive interface {
	Save(ctx context.Context, snapshot *report.Snapshot) error
	// Get returns core.ErrSnapshotNotFound when no snapshot has id.
	Get(ctx context.Context, id core.SnapshotID) (*report.Snapshot, error)
	// List returns snapshots newest first.
	List(ctx context.Context, limit, offset int) ([]*report.Snapshot, error)
}
