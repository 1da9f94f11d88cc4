package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealerdesk/dealerdesk/internal/domain"
)

// RetentionConfig carries the location data-retention policy.
type RetentionConfig struct {
	// Window is how long a completed session's full trail is kept before
	// thinning.
	Window time.Duration
	// Stride keeps every Nth point of a thinned trail.
	Stride int
	// BatchSize bounds how many point IDs go into one delete statement.
	BatchSize int
	// SessionCap bounds how many sessions a single run processes.
	SessionCap int
}

// CleanupResult summarizes one retention run.
type CleanupResult struct {
	SessionsProcessed int
	PointsDeleted     int
}

// RetentionUseCase thins GPS trails of completed duty sessions that have
// aged past the retention window.
type RetentionUseCase struct {
	sessionRepo SessionRepository
	pointRepo   PointRepository
	cfg         RetentionConfig
	logger      zerolog.Logger
}

// NewRetentionUseCase creates a new RetentionUseCase.
func NewRetentionUseCase(
	sessionRepo SessionRepository,
	pointRepo PointRepository,
	cfg RetentionConfig,
	logger zerolog.Logger,
) *RetentionUseCase {
	return &RetentionUseCase{
		sessionRepo: sessionRepo,
		pointRepo:   pointRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// CleanupLocations runs one retention pass. Sessions are processed
// sequentially; a failing session or batch is logged and skipped so it never
// blocks cleanup of the remaining sessions. A session is marked thinned only
// after its whole plan went through, so re-running the cleanup never touches
// an already-thinned trail and a failed session gets retried on the next run.
// The run itself only errors when the eligible-session query fails.
func (uc *RetentionUseCase) CleanupLocations(ctx context.Context) (CleanupResult, error) {
	var result CleanupResult

	now := time.Now().UTC()
	cutoff := now.Add(-uc.cfg.Window)

	sessions, err := uc.sessionRepo.ListCompletedBefore(ctx, cutoff, uc.cfg.SessionCap)
	if err != nil {
		return result, err
	}

	for _, session := range sessions {
		if !session.EligibleForThinning(now, uc.cfg.Window) {
			continue
		}

		deleted, err := uc.thinSession(ctx, session)
		// Batches deleted before a failure stay deleted; count them.
		result.PointsDeleted += deleted
		if err != nil {
			continue
		}

		if err := uc.sessionRepo.MarkThinned(ctx, session.ID, now); err != nil {
			uc.logger.Error().Err(err).
				Str("session_id", session.ID).
				Msg("failed to mark session as thinned")
			continue
		}
		result.SessionsProcessed++
	}

	uc.logger.Info().
		Int("sessions_processed", result.SessionsProcessed).
		Int("points_deleted", result.PointsDeleted).
		Msg("location retention cleanup completed")

	return result, nil
}

func (uc *RetentionUseCase) thinSession(ctx context.Context, session *domain.DutySession) (int, error) {
	points, err := uc.pointRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return 0, err
	}

	plan := domain.ThinningPlan(points, uc.cfg.Stride)
	if len(plan) == 0 {
		return 0, nil
	}

	deleted := 0
	for start := 0; start < len(plan); start += uc.cfg.BatchSize {
		end := min(start+uc.cfg.BatchSize, len(plan))

		n, err := uc.pointRepo.DeleteBatch(ctx, plan[start:end])
		deleted += n
		if err != nil {
			uc.logger.Error().Err(err).
				Str("session_id", session.ID).
				Int("batch_start", start).
				Int("batch_size", end-start).
				Msg("failed to delete point batch")
			return deleted, err
		}
	}

	return deleted, nil
}
