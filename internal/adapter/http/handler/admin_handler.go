package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dealerdesk/dealerdesk/internal/adapter/http/dto"
	"github.com/dealerdesk/dealerdesk/internal/adapter/http/middleware"
	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/infrastructure/metrics"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
)

// UserService defines the user-administration behavior needed by
// AdminHandler.
type UserService interface {
	ListUsers(ctx context.Context, input usecase.ListUsersInput) ([]*domain.User, error)
	CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	UpdateRoles(ctx context.Context, input usecase.UpdateRolesInput) (*domain.User, error)
}

// RetentionService defines the cleanup behavior needed by AdminHandler.
type RetentionService interface {
	CleanupLocations(ctx context.Context) (usecase.CleanupResult, error)
}

// AdminHandler handles user administration and maintenance requests.
type AdminHandler struct {
	userUC      UserService
	retentionUC RetentionService
	metrics     *metrics.Metrics
}

// NewAdminHandler creates a new AdminHandler. metrics may be nil.
func NewAdminHandler(userUC UserService, retentionUC RetentionService, m *metrics.Metrics) *AdminHandler {
	return &AdminHandler{userUC: userUC, retentionUC: retentionUC, metrics: m}
}

// Users multiplexes user administration through the request's action field:
// list, create or update_roles.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	var req dto.UserAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	switch req.Action {
	case "list":
		h.listUsers(w, r, caller, req)
	case "create":
		h.createUser(w, r, caller, req)
	case "update_roles":
		h.updateRoles(w, r, caller, req)
	default:
		writeError(w, http.StatusBadRequest, "invalid action", "action must be list, create or update_roles")
	}
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request, caller *domain.User, req dto.UserAdminRequest) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	users, err := h.userUC.ListUsers(r.Context(), usecase.ListUsersInput{
		CallerRoles: caller.Roles,
		Limit:       limit,
		Offset:      req.Offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list users", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UsersFromDomain(users))
}

func (h *AdminHandler) createUser(w http.ResponseWriter, r *http.Request, caller *domain.User, req dto.UserAdminRequest) {
	user, err := h.userUC.CreateUser(r.Context(), usecase.CreateUserInput{
		CallerRoles: caller.Roles,
		Email:       req.Email,
		Name:        req.Name,
		Roles:       req.DomainRoles(),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create user", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

func (h *AdminHandler) updateRoles(w http.ResponseWriter, r *http.Request, caller *domain.User, req dto.UserAdminRequest) {
	user, err := h.userUC.UpdateRoles(r.Context(), usecase.UpdateRolesInput{
		CallerRoles: caller.Roles,
		UserID:      req.UserID,
		Roles:       req.DomainRoles(),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update roles", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// CleanupLocations runs one location retention pass.
func (h *AdminHandler) CleanupLocations(w http.ResponseWriter, r *http.Request) {
	result, err := h.retentionUC.CleanupLocations(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to run location cleanup", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.CleanupRuns.Inc()
		h.metrics.CleanupSessionsThinned.Add(float64(result.SessionsProcessed))
		h.metrics.CleanupPointsDeleted.Add(float64(result.PointsDeleted))
	}

	writeJSON(w, http.StatusOK, dto.CleanupResponse{
		Message:           "location retention cleanup completed",
		SessionsProcessed: result.SessionsProcessed,
		PointsDeleted:     result.PointsDeleted,
	})
}
