package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dealerdesk/dealerdesk/internal/adapter/http/dto"
	"github.com/dealerdesk/dealerdesk/internal/adapter/http/middleware"
	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/infrastructure/metrics"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
)

// GSTINService defines the behavior needed by GSTINHandler.
type GSTINService interface {
	Verify(ctx context.Context, input usecase.VerifyGSTINInput) (*domain.TaxpayerInfo, error)
}

// GSTINHandler handles GSTIN verification requests.
type GSTINHandler struct {
	gstinUC GSTINService
	metrics *metrics.Metrics
}

// NewGSTINHandler creates a new GSTINHandler. metrics may be nil.
func NewGSTINHandler(gstinUC GSTINService, m *metrics.Metrics) *GSTINHandler {
	return &GSTINHandler{gstinUC: gstinUC, metrics: m}
}

// Verify verifies a GSTIN against the external provider. The response uses
// the success envelope the mobile clients expect.
func (h *GSTINHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyGSTINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	start := time.Now()

	info, err := h.gstinUC.Verify(r.Context(), usecase.VerifyGSTINInput{
		GSTIN:     req.Value(),
		UserID:    user.ID,
		Roles:     user.Roles,
		RequestID: chimiddleware.GetReqID(r.Context()),
		IPAddress: r.RemoteAddr,
	})

	if h.metrics != nil {
		h.metrics.GSTINLookupDuration.Observe(time.Since(start).Seconds())
		h.metrics.GSTINLookups.WithLabelValues(lookupOutcome(err)).Inc()
		if errors.Is(err, domain.ErrRateLimited) {
			h.metrics.RateLimitHits.WithLabelValues("gstin_lookup").Inc()
		}
	}

	if err != nil {
		writeJSON(w, mapDomainError(err), dto.VerifyGSTINResponse{
			Success: false,
			Error:   err.Error(),
		})

		return
	}

	writeJSON(w, http.StatusOK, dto.VerifyGSTINResponse{
		Success: true,
		Data:    info,
	})
}

func lookupOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidGSTIN):
		return "invalid"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrProviderNotConfigured):
		return "not_configured"
	case errors.Is(err, domain.ErrProviderUnreachable):
		return "unreachable"
	case errors.Is(err, domain.ErrProviderRejected):
		return "rejected"
	default:
		return "error"
	}
}
