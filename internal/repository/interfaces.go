package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendacell/fiado-engine/internal/domain"
)

// DebtRepository defines the interface for debt data operations
type DebtRepository interface {
	// Create creates a new debt
	Create(ctx context.Context, debt *domain.Debt) error

	// GetByID retrieves a debt by its identifier
	GetByID(ctx context.Context, debtID uuid.UUID) (*domain.Debt, error)

	// UpdateStatus updates the status of a debt
	UpdateStatus(ctx context.Context, debtID uuid.UUID, status string) error

	// ListByStatus retrieves all debts with the given status
	ListByStatus(ctx context.Context, status string) ([]*domain.Debt, error)

	// ListAll retrieves every debt in the ledger
	ListAll(ctx context.Context) ([]*domain.Debt, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// RecordPayment appends a payment and settles the debt in a single
	// transaction, holding a row lock on the debt for the duration of the
	// write. Returns sql.ErrNoRows for an unknown debt and
	// ErrDebtAlreadySettled for a settled one, without inserting.
	RecordPayment(ctx context.Context, payment *domain.Payment, tolerance decimal.Decimal) (*domain.PaymentResult, error)

	// GetByDebtID retrieves all payments for a debt, oldest first
	GetByDebtID(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error)

	// GetTotalPaid sums the payments recorded against a debt
	GetTotalPaid(ctx context.Context, debtID uuid.UUID) (decimal.Decimal, error)
}

// StoreRepository defines the interface for store configuration lookups
type StoreRepository interface {
	// GetByStoreRef retrieves a store's configuration
	GetByStoreRef(ctx context.Context, storeRef string) (*domain.StoreConfig, error)
}
