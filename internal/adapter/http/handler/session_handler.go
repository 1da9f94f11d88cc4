package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dealerdesk/dealerdesk/internal/adapter/http/dto"
	"github.com/dealerdesk/dealerdesk/internal/adapter/http/middleware"
	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
)

// SessionService defines the behavior needed by SessionHandler.
type SessionService interface {
	StartSession(ctx context.Context, userID string) (*domain.DutySession, error)
	StopSession(ctx context.Context, id string) (*domain.DutySession, error)
	RecordPoints(ctx context.Context, sessionID string, inputs []usecase.RecordPointInput) (int, error)
	Trail(ctx context.Context, sessionID string) ([]*domain.LocationPoint, error)
}

// SessionHandler handles duty session HTTP requests.
type SessionHandler struct {
	sessionUC SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionUC SessionService) *SessionHandler {
	return &SessionHandler{sessionUC: sessionUC}
}

// Start opens a duty session for the authenticated user.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	session, err := h.sessionUC.StartSession(r.Context(), user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to start session", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.SessionFromDomain(session))
}

// Stop completes a duty session.
func (h *SessionHandler) Stop(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session ID", "")
		return
	}

	session, err := h.sessionUC.StopSession(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to stop session", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// RecordPoints appends GPS fixes to a session trail.
func (h *SessionHandler) RecordPoints(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session ID", "")
		return
	}

	var req dto.RecordPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	inputs := make([]usecase.RecordPointInput, len(req.Points))
	for i, p := range req.Points {
		inputs[i] = usecase.RecordPointInput{
			RecordedAt: p.RecordedAt,
			Lat:        p.Lat,
			Lng:        p.Lng,
			Accuracy:   p.Accuracy,
		}
	}

	stored, err := h.sessionUC.RecordPoints(r.Context(), id, inputs)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record points", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecordPointsResponse{Stored: stored})
}

// Trail returns a session's GPS trail in chronological order.
func (h *SessionHandler) Trail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session ID", "")
		return
	}

	points, err := h.sessionUC.Trail(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load trail", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PointsFromDomain(points))
}
