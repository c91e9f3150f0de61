package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/library-seat-reservation/internal/model"
)

// OccupancyRepo provides access to the append-only occupancy_logs
// table.  Samples are written by the background sampler and read by
// the analytics handlers; they are never updated or deleted.
type OccupancyRepo struct {
	db *sql.DB
}

// NewOccupancyRepo returns a new OccupancyRepo bound to the provided database.
func NewOccupancyRepo(db *sql.DB) *OccupancyRepo { return &OccupancyRepo{db: db} }

// Insert appends one occupancy sample recorded at the given instant.
func (r *OccupancyRepo) Insert(ctx context.Context, recordedAt time.Time, percentage int) error {
	const q = `INSERT INTO occupancy_logs (recorded_at, occupancy_percentage) VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, q, recordedAt.UTC(), percentage)
	return err
}

// QueryRange returns all samples with from <= recorded_at < to, in
// ascending recorded_at order.
func (r *OccupancyRepo) QueryRange(ctx context.Context, from, to time.Time) ([]model.OccupancySample, error) {
	const q = `SELECT recorded_at, occupancy_percentage FROM occupancy_logs
	           WHERE recorded_at >= ? AND recorded_at < ?
	           ORDER BY recorded_at`
	rows, err := r.db.QueryContext(ctx, q, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSamples(rows)
}

// QueryAll returns every recorded sample in ascending recorded_at
// order.  The quiet-hours rollup averages over all available history.
func (r *OccupancyRepo) QueryAll(ctx context.Context) ([]model.OccupancySample, error) {
	const q = `SELECT recorded_at, occupancy_percentage FROM occupancy_logs ORDER BY recorded_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSamples(rows)
}

func collectSamples(rows *sql.Rows) ([]model.OccupancySample, error) {
	var result []model.OccupancySample
	for rows.Next() {
		var s model.OccupancySample
		if err := rows.Scan(&s.RecordedAt, &s.OccupancyPercentage); err != nil {
			return nil, err
		}
		s.RecordedAt = s.RecordedAt.UTC()
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
