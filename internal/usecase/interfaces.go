package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealerdesk/dealerdesk/internal/domain"
)

// InvoiceRepository defines data access for invoices and their lines.
type InvoiceRepository interface {
	Create(ctx context.Context, tx Transaction, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Invoice, error)
	UpdateAmountPaid(ctx context.Context, tx Transaction, id string, amountPaid decimal.Decimal) error
	ListOutstanding(ctx context.Context, kind domain.InvoiceKind) ([]domain.OutstandingDoc, error)
}

// LedgerRepository defines data access for counterparty ledger entries.
type LedgerRepository interface {
	CreateEntry(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	ListByCounterparty(ctx context.Context, counterpartyID string) ([]*domain.LedgerEntry, error)
}

// SessionRepository defines data access for duty sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.DutySession) error
	GetByID(ctx context.Context, id string) (*domain.DutySession, error)
	Complete(ctx context.Context, id string, endedAt time.Time) error
	// ListCompletedBefore returns completed, not yet thinned sessions whose
	// trails aged past the cutoff.
	ListCompletedBefore(ctx context.Context, endedBefore time.Time, limit int) ([]*domain.DutySession, error)
	MarkThinned(ctx context.Context, id string, thinnedAt time.Time) error
}

// PointRepository defines data access for location trail points.
type PointRepository interface {
	CreateBatch(ctx context.Context, points []*domain.LocationPoint) error
	ListBySession(ctx context.Context, sessionID string) ([]*domain.LocationPoint, error)
	DeleteBatch(ctx context.Context, ids []string) (int, error)
}

// UserRepository defines data access for admin-panel users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
	UpdateRoles(ctx context.Context, id string, roles []domain.Role, updatedAt time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// GSTINProvider calls the external GSTIN verification service.
type GSTINProvider interface {
	// Configured reports whether provider credentials are present. Lookups
	// must not be attempted against an unconfigured provider.
	Configured() bool
	Lookup(ctx context.Context, gstin string) (*domain.TaxpayerInfo, error)
}

// CallLimiter tracks per-key call counts over a sliding window. Counting and
// recording are two distinct steps: a call is recorded once it passes the
// limit check, regardless of how the downstream operation ends.
type CallLimiter interface {
	CountRecent(ctx context.Context, key string, window time.Duration) (int64, error)
	Record(ctx context.Context, key string, at time.Time, window time.Duration) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
