package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/vendacell/fiado-engine/internal/domain"
)

type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) Create(ctx context.Context, debt *domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) GetByID(ctx context.Context, debtID uuid.UUID) (*domain.Debt, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) UpdateStatus(ctx context.Context, debtID uuid.UUID, status string) error {
	args := m.Called(ctx, debtID, status)
	return args.Error(0)
}

func (m *MockDebtRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Debt, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) ListAll(ctx context.Context) ([]*domain.Debt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Debt), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) RecordPayment(ctx context.Context, payment *domain.Payment, tolerance decimal.Decimal) (*domain.PaymentResult, error) {
	args := m.Called(ctx, payment, tolerance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentResult), args.Error(1)
}

func (m *MockPaymentRepository) GetByDebtID(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetTotalPaid(ctx context.Context, debtID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, debtID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) GetByStoreRef(ctx context.Context, storeRef string) (*domain.StoreConfig, error) {
	args := m.Called(ctx, storeRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoreConfig), args.Error(1)
}
