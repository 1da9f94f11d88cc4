package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealerdesk/dealerdesk/internal/domain"
)

// SessionRepository implements duty session persistence.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create inserts a new duty session.
func (r *SessionRepository) Create(ctx context.Context, session *domain.DutySession) error {
	query := `
		INSERT INTO duty_sessions (id, user_id, status, started_at, ended_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Status,
		session.StartedAt,
		session.EndedAt,
		session.CreatedAt,
	)

	return err
}

// GetByID retrieves a duty session by ID.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.DutySession, error) {
	query := `
		SELECT id, user_id, status, started_at, ended_at, thinned_at, created_at
		FROM duty_sessions
		WHERE id = $1
	`

	var session domain.DutySession
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.Status,
		&session.StartedAt,
		&session.EndedAt,
		&session.ThinnedAt,
		&session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// Complete marks a session completed at endedAt.
func (r *SessionRepository) Complete(ctx context.Context, id string, endedAt time.Time) error {
	query := `
		UPDATE duty_sessions
		SET status = $2, ended_at = $3
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, domain.SessionCompleted, endedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// ListCompletedBefore returns completed sessions whose trails aged past the
// cutoff and have not been thinned yet, oldest first, capped at limit.
func (r *SessionRepository) ListCompletedBefore(ctx context.Context, endedBefore time.Time, limit int) ([]*domain.DutySession, error) {
	query := `
		SELECT id, user_id, status, started_at, ended_at, thinned_at, created_at
		FROM duty_sessions
		WHERE status = $1 AND ended_at < $2 AND thinned_at IS NULL
		ORDER BY ended_at ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, domain.SessionCompleted, endedBefore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.DutySession
	for rows.Next() {
		var session domain.DutySession
		err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.Status,
			&session.StartedAt,
			&session.EndedAt,
			&session.ThinnedAt,
			&session.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}

// MarkThinned records that the session's trail went through a retention pass,
// taking it out of ListCompletedBefore for good.
func (r *SessionRepository) MarkThinned(ctx context.Context, id string, thinnedAt time.Time) error {
	query := `
		UPDATE duty_sessions
		SET thinned_at = $2
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, thinnedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
