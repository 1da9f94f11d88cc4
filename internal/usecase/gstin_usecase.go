package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealerdesk/dealerdesk/internal/domain"
)

const gstinLookupEndpoint = "gstin.verify"

// GSTINVerifierConfig carries the request-gating parameters for the lookup
// gateway.
type GSTINVerifierConfig struct {
	RateLimit  int
	RateWindow time.Duration
	CacheTTL   time.Duration
}

// GSTINUseCase verifies GSTINs against an external provider, gated by role
// checks and a per-user sliding-window rate limit, with a complete audit
// trail of every attempt.
type GSTINUseCase struct {
	provider  GSTINProvider
	limiter   CallLimiter
	auditRepo AuditRepository
	cache     Cache
	idGen     IDGenerator
	cfg       GSTINVerifierConfig
	logger    zerolog.Logger
}

// NewGSTINUseCase creates a new GSTINUseCase. cache may be nil to disable
// lookup caching.
func NewGSTINUseCase(
	provider GSTINProvider,
	limiter CallLimiter,
	auditRepo AuditRepository,
	cache Cache,
	idGen IDGenerator,
	cfg GSTINVerifierConfig,
	logger zerolog.Logger,
) *GSTINUseCase {
	return &GSTINUseCase{
		provider:  provider,
		limiter:   limiter,
		auditRepo: auditRepo,
		cache:     cache,
		idGen:     idGen,
		cfg:       cfg,
		logger:    logger,
	}
}

// VerifyGSTINInput identifies the GSTIN to verify and the caller attempting
// the lookup.
type VerifyGSTINInput struct {
	GSTIN     string
	UserID    string
	Roles     []domain.Role
	RequestID string
	IPAddress string
}

// Verify runs the full lookup pipeline: format validation, authorization,
// rate limiting, provider call, normalization. Every outcome past format
// validation is written to the audit trail.
func (uc *GSTINUseCase) Verify(ctx context.Context, input VerifyGSTINInput) (*domain.TaxpayerInfo, error) {
	// Format failures are rejected before any side effect.
	gstin, err := domain.NormalizeGSTIN(input.GSTIN)
	if err != nil {
		return nil, err
	}

	if !domain.HasAnyRole(input.Roles, domain.GSTLookupRoles...) {
		uc.audit(ctx, input, gstin, domain.AuditOutcomeForbidden, nil)
		return nil, domain.ErrForbidden
	}

	limitKey := fmt.Sprintf("%s:%s", input.UserID, gstinLookupEndpoint)

	count, err := uc.limiter.CountRecent(ctx, limitKey, uc.cfg.RateWindow)
	if err != nil {
		uc.audit(ctx, input, gstin, domain.AuditOutcomeError, domain.JSON{"error": err.Error()})
		return nil, fmt.Errorf("rate limit check: %w", err)
	}
	if count >= int64(uc.cfg.RateLimit) {
		uc.audit(ctx, input, gstin, domain.AuditOutcomeRateLimited, nil)
		return nil, domain.ErrRateLimited
	}

	// The call is recorded as soon as it passes the limit check. Failures
	// further down still count against the caller's window.
	if err := uc.limiter.Record(ctx, limitKey, time.Now().UTC(), uc.cfg.RateWindow); err != nil {
		uc.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to record rate limit entry")
	}

	if uc.provider == nil || !uc.provider.Configured() {
		uc.audit(ctx, input, gstin, domain.AuditOutcomeNotConfigured, nil)
		return nil, domain.ErrProviderNotConfigured
	}

	if info := uc.cachedLookup(ctx, gstin); info != nil {
		uc.audit(ctx, input, gstin, domain.AuditOutcomeSuccess, domain.JSON{
			"legal_name": info.LegalName,
			"status":     info.Status,
			"cached":     true,
		})
		return info, nil
	}

	info, err := uc.provider.Lookup(ctx, gstin)
	if err != nil {
		outcome := domain.AuditOutcomeError
		switch {
		case errors.Is(err, domain.ErrProviderUnreachable):
			outcome = domain.AuditOutcomeProviderUnreachable
		case errors.Is(err, domain.ErrProviderRejected):
			outcome = domain.AuditOutcomeProviderRejected
		}
		uc.audit(ctx, input, gstin, outcome, domain.JSON{"error": err.Error()})
		return nil, err
	}

	uc.storeLookup(ctx, gstin, info)
	uc.audit(ctx, input, gstin, domain.AuditOutcomeSuccess, domain.JSON{
		"legal_name": info.LegalName,
		"status":     info.Status,
	})

	return info, nil
}

func (uc *GSTINUseCase) cachedLookup(ctx context.Context, gstin string) *domain.TaxpayerInfo {
	if uc.cache == nil {
		return nil
	}

	data, err := uc.cache.Get(ctx, "gstin:"+gstin)
	if err != nil || data == nil {
		return nil
	}

	var info domain.TaxpayerInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil
	}
	return &info
}

func (uc *GSTINUseCase) storeLookup(ctx context.Context, gstin string, info *domain.TaxpayerInfo) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, "gstin:"+gstin, data, uc.cfg.CacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("gstin", gstin).Msg("failed to cache lookup result")
	}
}

// audit writes one trail record for the attempt. Audit failures are logged
// but never override the primary result.
func (uc *GSTINUseCase) audit(ctx context.Context, input VerifyGSTINInput, gstin string, outcome domain.AuditOutcome, detail domain.JSON) {
	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       input.UserID,
		Action:       string(domain.AuditActionGSTINVerify),
		ResourceType: "gstin",
		ResourceID:   gstin,
		IPAddress:    input.IPAddress,
		RequestID:    input.RequestID,
		Outcome:      outcome,
		Detail:       detail,
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.auditRepo.Create(ctx, log); err != nil {
		uc.logger.Error().Err(err).
			Str("gstin", gstin).
			Str("outcome", string(outcome)).
			Msg("failed to write audit log")
	}
}
