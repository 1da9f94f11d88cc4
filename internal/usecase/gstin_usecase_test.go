package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
	"github.com/dealerdesk/dealerdesk/internal/usecase/mocks"
)

const validGSTIN = "36AABCM1234A1Z5"

func gstinVerifierConfig() usecase.GSTINVerifierConfig {
	return usecase.GSTINVerifierConfig{
		RateLimit:  10,
		RateWindow: time.Minute,
		CacheTTL:   24 * time.Hour,
	}
}

func newGSTINDeps(ctrl *gomock.Controller) (*mocks.MockGSTINProvider, *mocks.MockCallLimiter, *mocks.MockAuditRepository, *mocks.MockIDGenerator) {
	provider := mocks.NewMockGSTINProvider(ctrl)
	limiter := mocks.NewMockCallLimiter(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	idGen.EXPECT().Generate().Return("audit-1").AnyTimes()
	return provider, limiter, auditRepo, idGen
}

func expectAudit(auditRepo *mocks.MockAuditRepository, outcome domain.AuditOutcome) *domain.AuditLog {
	captured := &domain.AuditLog{}
	auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, log *domain.AuditLog) error {
			*captured = *log
			if log.Outcome != outcome {
				return fmt.Errorf("unexpected outcome %q", log.Outcome)
			}
			return nil
		})
	return captured
}

func TestGSTINUseCase_Verify_InvalidFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider, limiter, auditRepo, idGen := newGSTINDeps(ctrl)

	// No limiter, provider, or audit calls may happen for a malformed GSTIN.
	uc := usecase.NewGSTINUseCase(provider, limiter, auditRepo, nil, idGen, gstinVerifierConfig(), zerolog.Nop())

	_, err := uc.Verify(context.Background(), usecase.VerifyGSTINInput{
		GSTIN:  "36AABCM1234A1Z",
		UserID: "u1",
		Roles:  []domain.Role{domain.RoleAdmin},
	})
	if !errors.Is(err, domain.ErrInvalidGSTIN) {
		t.Fatalf("expected ErrInvalidGSTIN, got %v", err)
	}
}

func TestGSTINUseCase_Verify_Forbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider, limiter, auditRepo, idGen := newGSTINDeps(ctrl)
	captured := expectAudit(auditRepo, domain.AuditOutcomeForbidden)

	uc := usecase.NewGSTINUseCase(provider, limiter, auditRepo, nil, idGen, gstinVerifierConfig(), zerolog.Nop())

	_, err := uc.Verify(context.Background(), usecase.VerifyGSTINInput{
		GSTIN:  validGSTIN,
		UserID: "u1",
		Roles:  []domain.Role{domain.RoleFieldRep},
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if captured.ResourceID != validGSTIN {
		t.Errorf("expected audit for %s, got %s", validGSTIN, captured.ResourceID)
	}
}

func TestGSTINUseCase_Verify_RateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider, limiter, auditRepo, idGen := newGSTINDeps(ctrl)
	limiter.EXPECT().CountRecent(gomock.Any(), "u1:gstin.verify", time.Minute).Return(int64(10), nil)
	expectAudit(auditRepo, domain.AuditOutcomeRateLimited)

	uc := usecase.NewGSTINUseCase(provider, limiter, auditRepo, nil, idGen, gstinVerifierConfig(), zerolog.Nop())

	_, err := uc.Verify(context.Background(), usecase.VerifyGSTINInput{
		GSTIN:  validGSTIN,
		UserID: "u1",
		Roles:  []domain.Role{domain.RoleSales},
	})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestGSTINUseCase_Verify_BelowLimitPasses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider, limiter, auditRepo, idGen := newGSTINDeps(ctrl)
	limiter.EXPECT().CountRecent(gomock.Any(), "u1:gstin.verify", time.Minute).Return(int64(9), nil)
	limiter.EXPECT().Record(gomock.Any(), "u1:gstin.verify", gomock.Any(), time.Minute).Return(nil)
	provider.EXPECT().Configured().Return(true)
	provider.EXPECT().Lookup(gomock.Any(), validGSTIN).Return(&domain.TaxpayerInfo{
		GSTIN:     validGSTIN,
		LegalName: "Maruti Motors Pvt Ltd",
		Status:    "Active",
	}, nil)
	expectAudit(auditRepo, domain.AuditOutcomeSuccess)

	uc := usecase.NewGSTINUseCase(provider, limiter, auditRepo, nil, idGen, gstinVerifierConfig(), zerolog.Nop())

	info, err := uc.Verify(context.Background(), usecase.VerifyGSTINInput{
		GSTIN:  validGSTIN,
		UserID: "u1",
		Roles:  []domain.Role{domain.RoleAccounts},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.LegalName != "Maruti Motors Pvt Ltd" {
		t.Errorf("unexpected legal name %q", info.LegalName)
	}
}

func TestGSTINUseCase_Verify_NormalizesInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider, limiter, auditRepo, idGen := newGSTINDeps(ctrl)
	limiter.EXPECT().CountRecent(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
	limiter.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	provider.EXPECT().Configured().Return(true)
	// The provider must see the canonical uppercase form.
	provider.EXPECT().Lookup(gomock.Any(), validGSTIN).Return(&domain.TaxpayerInfo{GSTIN: validGSTIN}, nil)
	expectAudit(auditRepo, domain.AuditOutcomeSuccess)

	uc := usecase.NewGSTINUseCase(provider, limiter, auditRepo, nil, idGen, gstinVerifierConfig(), zerolog.Nop())

	if _, err := uc.Verify(context.Background(), usecase.VerifyGSTINInput{
		GSTIN:  "  36aabcm1234a1z5 ",
		UserID: "u1",
		Roles:  []domain.Role{domain.RoleSales},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGSTINUseCase_Verify_ProviderNotConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider, limiter, auditRepo, idGen := newGSTINDeps(ctrl)
	limiter.EXPECT().CountRecent(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
	// The attempt still counts against the window.
	limiter.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	provider.EXPECT().Configured().Return(false)
	expectAudit(auditRepo, domain.AuditOutcomeNotConfigured)

	uc := usecase.NewGSTINUseCase(provider, limiter, auditRepo, nil, idGen, gstinVerifierConfig(), zerolog.Nop())

	_, err := uc.Verify(context.Background(), usecase.VerifyGSTINInput{
		GSTIN:  validGSTIN,
		UserID: "u1",
		Roles:  []domain.Role{domain.RoleSales},
	})
	if !errors.Is(err, domain.ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}
}

func TestGSTINUseCase_Verify_ProviderFailures(t *testing.T) {
	tests := []struct {
		name        string
		providerErr error
		wantOutcome domain.AuditOutcome
	}{
		{
			name:        "provider unreachable",
			providerErr: fmt.Errorf("%w: dial tcp: i/o timeout", domain.ErrProviderUnreachable),
			wantOutcome: domain.AuditOutcomeProviderUnreachable,
		},
		{
			name:        "provider rejected",
			providerErr: fmt.Errorf("%w: GSTIN not found", domain.ErrProviderRejected),
			wantOutcome: domain.AuditOutcomeProviderRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			provider, limiter, auditRepo, idGen := newGSTINDeps(ctrl)
			limiter.EXPECT().CountRecent(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
			limiter.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			provider.EXPECT().Configured().Return(true)
			provider.EXPECT().Lookup(gomock.Any(), validGSTIN).Return(nil, tt.providerErr)
			expectAudit(auditRepo, tt.wantOutcome)

			uc := usecase.NewGSTINUseCase(provider, limiter, auditRepo, nil, idGen, gstinVerifierConfig(), zerolog.Nop())

			_, err := uc.Verify(context.Background(), usecase.VerifyGSTINInput{
				GSTIN:  validGSTIN,
				UserID: "u1",
				Roles:  []domain.Role{domain.RoleAccounts},
			})
			if !errors.Is(err, tt.providerErr) && err.Error() != tt.providerErr.Error() {
				t.Fatalf("expected %v, got %v", tt.providerErr, err)
			}
		})
	}
}

func TestGSTINUseCase_Verify_CacheHitSkipsProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider, limiter, auditRepo, idGen := newGSTINDeps(ctrl)
	cache := mocks.NewMockCache(ctrl)

	cached, _ := json.Marshal(&domain.TaxpayerInfo{
		GSTIN:     validGSTIN,
		LegalName: "Cached Traders",
		Status:    "Active",
	})

	limiter.EXPECT().CountRecent(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
	limiter.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	provider.EXPECT().Configured().Return(true)
	cache.EXPECT().Get(gomock.Any(), "gstin:"+validGSTIN).Return(cached, nil)
	expectAudit(auditRepo, domain.AuditOutcomeSuccess)

	uc := usecase.NewGSTINUseCase(provider, limiter, auditRepo, cache, idGen, gstinVerifierConfig(), zerolog.Nop())

	info, err := uc.Verify(context.Background(), usecase.VerifyGSTINInput{
		GSTIN:  validGSTIN,
		UserID: "u1",
		Roles:  []domain.Role{domain.RoleSales},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.LegalName != "Cached Traders" {
		t.Errorf("expected cached result, got %q", info.LegalName)
	}
}

func TestGSTINUseCase_Verify_CacheMissStoresResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider, limiter, auditRepo, idGen := newGSTINDeps(ctrl)
	cache := mocks.NewMockCache(ctrl)

	limiter.EXPECT().CountRecent(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
	limiter.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	provider.EXPECT().Configured().Return(true)
	cache.EXPECT().Get(gomock.Any(), "gstin:"+validGSTIN).Return(nil, errors.New("redis: nil"))
	provider.EXPECT().Lookup(gomock.Any(), validGSTIN).Return(&domain.TaxpayerInfo{GSTIN: validGSTIN, LegalName: "Fresh Result"}, nil)
	cache.EXPECT().Set(gomock.Any(), "gstin:"+validGSTIN, gomock.Any(), 24*time.Hour).Return(nil)
	expectAudit(auditRepo, domain.AuditOutcomeSuccess)

	uc := usecase.NewGSTINUseCase(provider, limiter, auditRepo, cache, idGen, gstinVerifierConfig(), zerolog.Nop())

	info, err := uc.Verify(context.Background(), usecase.VerifyGSTINInput{
		GSTIN:  validGSTIN,
		UserID: "u1",
		Roles:  []domain.Role{domain.RoleSales},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.LegalName != "Fresh Result" {
		t.Errorf("unexpected result %q", info.LegalName)
	}
}
