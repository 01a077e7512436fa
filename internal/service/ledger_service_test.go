package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vendacell/fiado-engine/internal/domain"
	customError "github.com/vendacell/fiado-engine/pkg/errors"
	"github.com/vendacell/fiado-engine/tests/mocks"
)

func newTestLedger(debtRepo *mocks.MockDebtRepository, paymentRepo *mocks.MockPaymentRepository) *LedgerService {
	return &LedgerService{debtRepo: debtRepo, paymentRepo: paymentRepo}
}

func openDebt(total decimal.Decimal, installments int) *domain.Debt {
	now := time.Now()
	return &domain.Debt{
		ID:               uuid.New(),
		SaleRef:          "SALE-001",
		CustomerRef:      "CUST-001",
		CustomerName:     "Maria Souza",
		StoreRef:         "STORE-01",
		StoreName:        "Loja Centro",
		TotalAmount:      total,
		InstallmentCount: installments,
		Recurrence:       domain.RecurrenceMonthly,
		CompetencyStart:  time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		Status:           domain.DebtStatusOpen,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestCreateDebt(t *testing.T) {
	tests := []struct {
		name          string
		request       *domain.CreateDebtRequest
		setupMocks    func(*mocks.MockDebtRepository)
		expectedError error
	}{
		{
			name: "Success - Create new debt",
			request: &domain.CreateDebtRequest{
				SaleRef:          "SALE-001",
				CustomerRef:      "CUST-001",
				CustomerName:     "Maria Souza",
				StoreRef:         "STORE-01",
				StoreName:        "Loja Centro",
				TotalAmount:      decimal.NewFromInt(1500),
				InstallmentCount: 3,
				Recurrence:       domain.RecurrenceMonthly,
			},
			setupMocks: func(debtRepo *mocks.MockDebtRepository) {
				debtRepo.On("Create", mock.Anything, mock.MatchedBy(func(debt *domain.Debt) bool {
					return debt.SaleRef == "SALE-001" &&
						debt.Status == domain.DebtStatusOpen &&
						debt.CompetencyStart.Day() == 1
				})).Return(nil)
			},
		},
		{
			name: "Failure - Non-positive amount",
			request: &domain.CreateDebtRequest{
				SaleRef:          "SALE-002",
				CustomerRef:      "CUST-001",
				CustomerName:     "Maria Souza",
				StoreRef:         "STORE-01",
				TotalAmount:      decimal.Zero,
				InstallmentCount: 3,
			},
			setupMocks:    func(debtRepo *mocks.MockDebtRepository) {},
			expectedError: customError.ErrInvalidDebtAmount,
		},
		{
			name: "Failure - Installment count below one",
			request: &domain.CreateDebtRequest{
				SaleRef:          "SALE-003",
				CustomerRef:      "CUST-001",
				CustomerName:     "Maria Souza",
				StoreRef:         "STORE-01",
				TotalAmount:      decimal.NewFromInt(1500),
				InstallmentCount: 0,
			},
			setupMocks:    func(debtRepo *mocks.MockDebtRepository) {},
			expectedError: customError.ErrInvalidInstallments,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debtRepo := &mocks.MockDebtRepository{}
			paymentRepo := &mocks.MockPaymentRepository{}
			service := newTestLedger(debtRepo, paymentRepo)

			tt.setupMocks(debtRepo)

			debt, err := service.CreateDebt(context.Background(), tt.request)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, debt)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, domain.DebtStatusOpen, debt.Status)
				assert.Equal(t, tt.request.SaleRef, debt.SaleRef)
			}

			debtRepo.AssertExpectations(t)
		})
	}
}

func TestCreateDebt_AllowsDuplicateSaleRef(t *testing.T) {
	// Split credit arrangements: the same sale may back multiple debts,
	// so no dedup lookup happens on create.
	debtRepo := &mocks.MockDebtRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	service := newTestLedger(debtRepo, paymentRepo)

	debtRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()

	request := &domain.CreateDebtRequest{
		SaleRef:          "SALE-SPLIT",
		CustomerRef:      "CUST-001",
		CustomerName:     "Maria Souza",
		StoreRef:         "STORE-01",
		TotalAmount:      decimal.NewFromInt(800),
		InstallmentCount: 2,
	}

	first, err := service.CreateDebt(context.Background(), request)
	assert.NoError(t, err)
	second, err := service.CreateDebt(context.Background(), request)
	assert.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	debtRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestRecordPayment_PartialPayment(t *testing.T) {
	debtRepo := &mocks.MockDebtRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	service := newTestLedger(debtRepo, paymentRepo)

	debt := openDebt(decimal.NewFromInt(1500), 3)

	paymentRepo.On("RecordPayment", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.DebtID == debt.ID && p.Amount.Equal(decimal.NewFromInt(500))
	}), mock.Anything).Return(&domain.PaymentResult{
		TotalPaid:   decimal.NewFromInt(500),
		TotalAmount: decimal.NewFromInt(1500),
		Status:      domain.DebtStatusOpen,
	}, nil)

	result, err := service.RecordPayment(context.Background(), debt.ID, &domain.RecordPaymentRequest{
		Amount:      decimal.NewFromInt(500),
		Responsible: "Joana",
	})

	assert.NoError(t, err)
	assert.True(t, result.Outstanding.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, domain.DebtStatusOpen, result.DebtStatus)

	paymentRepo.AssertExpectations(t)
}

func TestRecordPayment_FinalPaymentSettlesDebt(t *testing.T) {
	debtRepo := &mocks.MockDebtRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	service := newTestLedger(debtRepo, paymentRepo)

	debt := openDebt(decimal.NewFromInt(1500), 3)

	paymentRepo.On("RecordPayment", mock.Anything, mock.Anything, mock.Anything).Return(&domain.PaymentResult{
		TotalPaid:   decimal.NewFromInt(1500),
		TotalAmount: decimal.NewFromInt(1500),
		Status:      domain.DebtStatusSettled,
	}, nil)

	result, err := service.RecordPayment(context.Background(), debt.ID, &domain.RecordPaymentRequest{
		Amount:      decimal.NewFromInt(500),
		Responsible: "Joana",
	})

	assert.NoError(t, err)
	assert.True(t, result.Outstanding.IsZero())
	assert.Equal(t, domain.DebtStatusSettled, result.DebtStatus)

	paymentRepo.AssertExpectations(t)
}

func TestRecordPayment_SingleTransactionalWrite(t *testing.T) {
	// The settle transition runs entirely inside the repository
	// transaction: the service issues exactly one write call carrying the
	// settle tolerance, and never touches the debt row on its own.
	debtRepo := &mocks.MockDebtRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	service := newTestLedger(debtRepo, paymentRepo)

	debt := openDebt(decimal.NewFromInt(100), 4)

	paymentRepo.On("RecordPayment", mock.Anything, mock.Anything, mock.MatchedBy(func(tol decimal.Decimal) bool {
		return tol.Equal(decimal.NewFromFloat(0.01))
	})).Return(&domain.PaymentResult{
		TotalPaid:   decimal.NewFromFloat(99.995),
		TotalAmount: decimal.NewFromInt(100),
		Status:      domain.DebtStatusSettled,
	}, nil)

	result, err := service.RecordPayment(context.Background(), debt.ID, &domain.RecordPaymentRequest{
		Amount:      decimal.NewFromFloat(24.99),
		Responsible: "Joana",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.DebtStatusSettled, result.DebtStatus)
	assert.True(t, result.Outstanding.IsZero())

	paymentRepo.AssertNumberOfCalls(t, "RecordPayment", 1)
	debtRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	debtRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPayment_SettledDebtRejected(t *testing.T) {
	debtRepo := &mocks.MockDebtRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	service := newTestLedger(debtRepo, paymentRepo)

	debtID := uuid.New()

	// The repository refuses under the row lock without inserting
	paymentRepo.On("RecordPayment", mock.Anything, mock.Anything, mock.Anything).Return(nil, customError.ErrDebtAlreadySettled)

	result, err := service.RecordPayment(context.Background(), debtID, &domain.RecordPaymentRequest{
		Amount:      decimal.NewFromInt(100),
		Responsible: "Joana",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, customError.ErrDebtAlreadySettled)
	assert.NotErrorIs(t, err, customError.ErrDebtNotFound)
}

func TestRecordPayment_UnknownDebt(t *testing.T) {
	debtRepo := &mocks.MockDebtRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	service := newTestLedger(debtRepo, paymentRepo)

	debtID := uuid.New()
	paymentRepo.On("RecordPayment", mock.Anything, mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)

	result, err := service.RecordPayment(context.Background(), debtID, &domain.RecordPaymentRequest{
		Amount:      decimal.NewFromInt(100),
		Responsible: "Joana",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, customError.ErrDebtNotFound)
	assert.NotErrorIs(t, err, customError.ErrDebtAlreadySettled)
}

func TestRecordPayment_NonPositiveAmount(t *testing.T) {
	debtRepo := &mocks.MockDebtRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	service := newTestLedger(debtRepo, paymentRepo)

	result, err := service.RecordPayment(context.Background(), uuid.New(), &domain.RecordPaymentRequest{
		Amount:      decimal.Zero,
		Responsible: "Joana",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, customError.ErrInvalidPaymentAmount)
	paymentRepo.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetOutstanding(t *testing.T) {
	tests := []struct {
		name        string
		total       decimal.Decimal
		paid        decimal.Decimal
		expected    decimal.Decimal
		description string
	}{
		{
			name:     "No payments",
			total:    decimal.NewFromInt(1500),
			paid:     decimal.Zero,
			expected: decimal.NewFromInt(1500),
		},
		{
			name:     "Partial payment",
			total:    decimal.NewFromInt(1500),
			paid:     decimal.NewFromInt(500),
			expected: decimal.NewFromInt(1000),
		},
		{
			name:     "Overpayment never goes negative",
			total:    decimal.NewFromInt(1500),
			paid:     decimal.NewFromInt(1600),
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debtRepo := &mocks.MockDebtRepository{}
			paymentRepo := &mocks.MockPaymentRepository{}
			service := newTestLedger(debtRepo, paymentRepo)

			debt := openDebt(tt.total, 3)
			debtRepo.On("GetByID", mock.Anything, debt.ID).Return(debt, nil)
			paymentRepo.On("GetTotalPaid", mock.Anything, debt.ID).Return(tt.paid, nil)

			out, err := service.GetOutstanding(context.Background(), debt.ID)

			assert.NoError(t, err)
			assert.True(t, out.Equal(tt.expected), "expected %s, got %s", tt.expected, out)
		})
	}
}

func TestGetProgress(t *testing.T) {
	tests := []struct {
		name     string
		total    decimal.Decimal
		paid     decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "Fresh debt",
			total:    decimal.NewFromInt(1500),
			paid:     decimal.Zero,
			expected: decimal.Zero,
		},
		{
			name:     "One third paid",
			total:    decimal.NewFromInt(1500),
			paid:     decimal.NewFromInt(500),
			expected: decimal.NewFromFloat(33.33),
		},
		{
			name:     "Overpayment caps at 100",
			total:    decimal.NewFromInt(1500),
			paid:     decimal.NewFromInt(2000),
			expected: decimal.NewFromInt(100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debtRepo := &mocks.MockDebtRepository{}
			paymentRepo := &mocks.MockPaymentRepository{}
			service := newTestLedger(debtRepo, paymentRepo)

			debt := openDebt(tt.total, 3)
			debtRepo.On("GetByID", mock.Anything, debt.ID).Return(debt, nil)
			paymentRepo.On("GetTotalPaid", mock.Anything, debt.ID).Return(tt.paid, nil)

			pct, err := service.GetProgress(context.Background(), debt.ID)

			assert.NoError(t, err)
			assert.True(t, pct.Round(2).Equal(tt.expected), "expected %s, got %s", tt.expected, pct)
		})
	}
}

func TestGetStatistics(t *testing.T) {
	debtRepo := &mocks.MockDebtRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	service := newTestLedger(debtRepo, paymentRepo)

	open := openDebt(decimal.NewFromInt(1000), 2)
	settled := openDebt(decimal.NewFromInt(2000), 4)
	settled.Status = domain.DebtStatusSettled

	debtRepo.On("ListAll", mock.Anything).Return([]*domain.Debt{open, settled}, nil)
	paymentRepo.On("GetTotalPaid", mock.Anything, open.ID).Return(decimal.NewFromInt(400), nil)

	stats, err := service.GetStatistics(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.OpenCount)
	assert.Equal(t, 1, stats.SettledCount)
	assert.True(t, stats.TotalOpenAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, stats.TotalSettledAmount.Equal(decimal.NewFromInt(2000)))
	assert.True(t, stats.OutstandingBalance.Equal(decimal.NewFromInt(600)))
	assert.True(t, stats.TotalCollected.Equal(decimal.NewFromInt(2400)))

	// Settled debts never hit the payment table during aggregation
	paymentRepo.AssertNotCalled(t, "GetTotalPaid", mock.Anything, settled.ID)
}

func TestGetStatistics_EmptyLedger(t *testing.T) {
	debtRepo := &mocks.MockDebtRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	service := newTestLedger(debtRepo, paymentRepo)

	debtRepo.On("ListAll", mock.Anything).Return([]*domain.Debt{}, nil)

	stats, err := service.GetStatistics(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, stats.OpenCount)
	assert.Equal(t, 0, stats.SettledCount)
	assert.True(t, stats.OutstandingBalance.IsZero())
	assert.True(t, stats.TotalCollected.IsZero())
}

func TestGetDebt_Detail(t *testing.T) {
	debtRepo := &mocks.MockDebtRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	service := newTestLedger(debtRepo, paymentRepo)

	debt := openDebt(decimal.NewFromInt(1500), 3)
	debtRepo.On("GetByID", mock.Anything, debt.ID).Return(debt, nil)
	paymentRepo.On("GetTotalPaid", mock.Anything, debt.ID).Return(decimal.NewFromInt(500), nil)

	detail, err := service.GetDebt(context.Background(), debt.ID)

	assert.NoError(t, err)
	assert.True(t, detail.TotalPaid.Equal(decimal.NewFromInt(500)))
	assert.True(t, detail.Outstanding.Equal(decimal.NewFromInt(1000)))
	assert.True(t, detail.ProgressPercent.Round(2).Equal(decimal.NewFromFloat(33.33)))
	assert.Equal(t, debt.CompetencyStart.Format("Jan-2006"), detail.CompetencyPeriod)
}

func TestListBehindSchedule(t *testing.T) {
	debtRepo := &mocks.MockDebtRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	service := newTestLedger(debtRepo, paymentRepo)

	// Three monthly installments anchored four months back with nothing paid
	lagging := openDebt(decimal.NewFromInt(900), 3)
	lagging.CompetencyStart = time.Now().AddDate(0, -4, 0)

	// Anchored this month, nothing due yet
	current := openDebt(decimal.NewFromInt(900), 3)

	debtRepo.On("ListByStatus", mock.Anything, domain.DebtStatusOpen).Return([]*domain.Debt{lagging, current}, nil)
	paymentRepo.On("GetTotalPaid", mock.Anything, lagging.ID).Return(decimal.Zero, nil)
	paymentRepo.On("GetTotalPaid", mock.Anything, current.ID).Return(decimal.Zero, nil)

	behind, err := service.ListBehindSchedule(context.Background())

	assert.NoError(t, err)
	assert.Len(t, behind, 1)
	assert.Equal(t, lagging.ID, behind[0].Debt.ID)
	assert.True(t, behind[0].Behind)
}

func TestGetOutstanding_DatabaseError(t *testing.T) {
	debtRepo := &mocks.MockDebtRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	service := newTestLedger(debtRepo, paymentRepo)

	debtID := uuid.New()
	debtRepo.On("GetByID", mock.Anything, debtID).Return(nil, errors.New("connection refused"))

	_, err := service.GetOutstanding(context.Background(), debtID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}
