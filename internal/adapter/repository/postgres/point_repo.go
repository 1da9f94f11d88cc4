package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/infrastructure/metrics"
)

// PointRepository implements location trail persistence. Trails are
// append-heavy while a session is active and batch-deleted by the retention
// job afterwards, so batch deletes run through the deadlock retrier.
type PointRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
	metrics *metrics.Metrics
}

// NewPointRepository creates a new point repository. m may be nil.
func NewPointRepository(pool *pgxpool.Pool, retrier *Retrier, m *metrics.Metrics) *PointRepository {
	return &PointRepository{pool: pool, retrier: retrier, metrics: m}
}

// CreateBatch inserts points with a bulk copy.
func (r *PointRepository) CreateBatch(ctx context.Context, points []*domain.LocationPoint) error {
	rows := make([][]any, len(points))
	for i, p := range points {
		rows[i] = []any{p.ID, p.SessionID, p.RecordedAt, p.Lat, p.Lng, p.Accuracy}
	}

	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"location_points"},
		[]string{"id", "session_id", "recorded_at", "lat", "lng", "accuracy"},
		pgx.CopyFromRows(rows),
	)

	return err
}

// ListBySession returns a session's trail in recording order.
func (r *PointRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.LocationPoint, error) {
	query := `
		SELECT id, session_id, recorded_at, lat, lng, accuracy
		FROM location_points
		WHERE session_id = $1
		ORDER BY recorded_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*domain.LocationPoint
	for rows.Next() {
		var p domain.LocationPoint
		err := rows.Scan(&p.ID, &p.SessionID, &p.RecordedAt, &p.Lat, &p.Lng, &p.Accuracy)
		if err != nil {
			return nil, err
		}
		points = append(points, &p)
	}

	return points, rows.Err()
}

// DeleteBatch removes the given points and reports how many rows went away.
func (r *PointRepository) DeleteBatch(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `DELETE FROM location_points WHERE id = ANY($1)`

	deleted := 0
	err := r.retrier.Retry(ctx, func() error {
		tag, err := r.pool.Exec(ctx, query, ids)
		if err != nil {
			return err
		}
		deleted = int(tag.RowsAffected())
		return nil
	})
	if err != nil && r.metrics != nil {
		r.metrics.CleanupBatchFailures.Inc()
	}

	return deleted, err
}
