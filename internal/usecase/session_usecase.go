package usecase

import (
	"context"
	"time"

	"github.com/dealerdesk/dealerdesk/internal/domain"
)

// SessionUseCase manages duty sessions and their GPS trails.
type SessionUseCase struct {
	sessionRepo SessionRepository
	pointRepo   PointRepository
	idGen       IDGenerator

	// maxAccuracyM drops fixes with worse horizontal accuracy than this.
	maxAccuracyM float64
}

// NewSessionUseCase creates a new SessionUseCase.
func NewSessionUseCase(sessionRepo SessionRepository, pointRepo PointRepository, idGen IDGenerator, maxAccuracyM float64) *SessionUseCase {
	return &SessionUseCase{
		sessionRepo:  sessionRepo,
		pointRepo:    pointRepo,
		idGen:        idGen,
		maxAccuracyM: maxAccuracyM,
	}
}

// StartSession opens a new active duty session for a field rep.
func (uc *SessionUseCase) StartSession(ctx context.Context, userID string) (*domain.DutySession, error) {
	now := time.Now().UTC()
	session := &domain.DutySession{
		ID:        uc.idGen.Generate(),
		UserID:    userID,
		Status:    domain.SessionActive,
		StartedAt: now,
		CreatedAt: now,
	}

	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// StopSession marks an active session completed.
func (uc *SessionUseCase) StopSession(ctx context.Context, id string) (*domain.DutySession, error) {
	session, err := uc.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Status == domain.SessionCompleted {
		return nil, domain.ErrSessionClosed
	}

	endedAt := time.Now().UTC()
	if err := uc.sessionRepo.Complete(ctx, id, endedAt); err != nil {
		return nil, err
	}

	session.Status = domain.SessionCompleted
	session.EndedAt = &endedAt

	return session, nil
}

// RecordPointInput is one GPS fix reported by the mobile client.
type RecordPointInput struct {
	RecordedAt time.Time
	Lat        float64
	Lng        float64
	Accuracy   float64
}

// RecordPoints appends fixes to an active session's trail, dropping fixes
// with unusable accuracy. Returns the number of points stored.
func (uc *SessionUseCase) RecordPoints(ctx context.Context, sessionID string, inputs []RecordPointInput) (int, error) {
	session, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if session.Status != domain.SessionActive {
		return 0, domain.ErrSessionClosed
	}

	points := make([]*domain.LocationPoint, 0, len(inputs))
	for _, in := range inputs {
		if uc.maxAccuracyM > 0 && in.Accuracy > uc.maxAccuracyM {
			continue
		}
		points = append(points, &domain.LocationPoint{
			ID:         uc.idGen.Generate(),
			SessionID:  sessionID,
			RecordedAt: in.RecordedAt,
			Lat:        in.Lat,
			Lng:        in.Lng,
			Accuracy:   in.Accuracy,
		})
	}

	if len(points) == 0 {
		return 0, nil
	}

	if err := uc.pointRepo.CreateBatch(ctx, points); err != nil {
		return 0, err
	}

	return len(points), nil
}

// Trail lists a session's points in chronological order.
func (uc *SessionUseCase) Trail(ctx context.Context, sessionID string) ([]*domain.LocationPoint, error) {
	if _, err := uc.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return uc.pointRepo.ListBySession(ctx, sessionID)
}
