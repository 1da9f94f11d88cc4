package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dealerdesk/dealerdesk/internal/adapter/http/dto"
	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
)

type sessionServiceStub struct {
	startFn  func(ctx context.Context, userID string) (*domain.DutySession, error)
	stopFn   func(ctx context.Context, id string) (*domain.DutySession, error)
	recordFn func(ctx context.Context, sessionID string, inputs []usecase.RecordPointInput) (int, error)
	trailFn  func(ctx context.Context, sessionID string) ([]*domain.LocationPoint, error)
}

func (s *sessionServiceStub) StartSession(ctx context.Context, userID string) (*domain.DutySession, error) {
	return s.startFn(ctx, userID)
}

func (s *sessionServiceStub) StopSession(ctx context.Context, id string) (*domain.DutySession, error) {
	return s.stopFn(ctx, id)
}

func (s *sessionServiceStub) RecordPoints(ctx context.Context, sessionID string, inputs []usecase.RecordPointInput) (int, error) {
	return s.recordFn(ctx, sessionID, inputs)
}

func (s *sessionServiceStub) Trail(ctx context.Context, sessionID string) ([]*domain.LocationPoint, error) {
	return s.trailFn(ctx, sessionID)
}

func fieldRepUser() *domain.User {
	return &domain.User{
		ID:    "rep-1",
		Email: "suresh@dealerdesk.in",
		Roles: []domain.Role{domain.RoleFieldRep},
	}
}

func TestSessionHandler_Start(t *testing.T) {
	handler := NewSessionHandler(&sessionServiceStub{
		startFn: func(ctx context.Context, userID string) (*domain.DutySession, error) {
			if userID != "rep-1" {
				t.Fatalf("expected session for rep-1, got %s", userID)
			}
			return &domain.DutySession{
				ID:        "ds-1",
				UserID:    userID,
				Status:    domain.SessionActive,
				StartedAt: time.Now().UTC(),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	req = withUser(req, fieldRepUser())
	rec := httptest.NewRecorder()

	handler.Start(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "ds-1" || resp.Status != "active" {
		t.Fatalf("unexpected session: %+v", resp)
	}
}

func TestSessionHandler_Start_MissingUser(t *testing.T) {
	handler := NewSessionHandler(&sessionServiceStub{
		startFn: func(ctx context.Context, userID string) (*domain.DutySession, error) {
			t.Fatal("StartSession should not be called without an authenticated user")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	rec := httptest.NewRecorder()

	handler.Start(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionHandler_Stop_AlreadyCompleted(t *testing.T) {
	handler := NewSessionHandler(&sessionServiceStub{
		stopFn: func(ctx context.Context, id string) (*domain.DutySession, error) {
			return nil, domain.ErrSessionClosed
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/sessions/ds-1/stop", nil)
	req = setChiURLParam(req, "id", "ds-1")
	rec := httptest.NewRecorder()

	handler.Stop(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestSessionHandler_RecordPoints(t *testing.T) {
	handler := NewSessionHandler(&sessionServiceStub{
		recordFn: func(ctx context.Context, sessionID string, inputs []usecase.RecordPointInput) (int, error) {
			if sessionID != "ds-1" {
				t.Fatalf("expected session ds-1, got %s", sessionID)
			}
			if len(inputs) != 2 {
				t.Fatalf("expected 2 points, got %d", len(inputs))
			}
			// One of the two fixes gets dropped by the accuracy filter.
			return 1, nil
		},
	})

	body, _ := json.Marshal(dto.RecordPointsRequest{
		Points: []dto.PointRequest{
			{RecordedAt: time.Now().UTC(), Lat: 17.385, Lng: 78.4867, Accuracy: 12},
			{RecordedAt: time.Now().UTC(), Lat: 17.386, Lng: 78.4870, Accuracy: 450},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/sessions/ds-1/points", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "ds-1")
	rec := httptest.NewRecorder()

	handler.RecordPoints(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.RecordPointsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Stored != 1 {
		t.Fatalf("expected 1 stored point, got %d", resp.Stored)
	}
}

func TestSessionHandler_Trail(t *testing.T) {
	handler := NewSessionHandler(&sessionServiceStub{
		trailFn: func(ctx context.Context, sessionID string) ([]*domain.LocationPoint, error) {
			return []*domain.LocationPoint{
				{ID: "pt-1", SessionID: sessionID, Lat: 17.385, Lng: 78.4867},
				{ID: "pt-2", SessionID: sessionID, Lat: 17.386, Lng: 78.4870},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/sessions/ds-1/trail", nil)
	req = setChiURLParam(req, "id", "ds-1")
	rec := httptest.NewRecorder()

	handler.Trail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.PointResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 || resp[0].ID != "pt-1" {
		t.Fatalf("unexpected trail: %+v", resp)
	}
}
