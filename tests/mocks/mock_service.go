package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/vendacell/fiado-engine/internal/domain"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateDebt(ctx context.Context, request *domain.CreateDebtRequest) (*domain.Debt, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockLedgerService) RecordPayment(ctx context.Context, debtID uuid.UUID, request *domain.RecordPaymentRequest) (*domain.RecordPaymentResponse, error) {
	args := m.Called(ctx, debtID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecordPaymentResponse), args.Error(1)
}

func (m *MockLedgerService) GetDebt(ctx context.Context, debtID uuid.UUID) (*domain.DebtDetail, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtDetail), args.Error(1)
}

func (m *MockLedgerService) ListPayments(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockLedgerService) GetStatistics(ctx context.Context) (*domain.LedgerStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerStatistics), args.Error(1)
}

type MockCommissionService struct {
	mock.Mock
}

func (m *MockCommissionService) GetCommissionPercent(ctx context.Context, storeRef string) (decimal.Decimal, error) {
	args := m.Called(ctx, storeRef)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
