package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/vendacell/fiado-engine/internal/config"
	"github.com/vendacell/fiado-engine/internal/domain"
	"github.com/vendacell/fiado-engine/internal/repository"
	customError "github.com/vendacell/fiado-engine/pkg/errors"
	"github.com/vendacell/fiado-engine/pkg/utils"
)

const statsCacheKey = "fiado:stats"

// LedgerService owns the lifecycle of fiado debts and their payments. It is
// the single source of truth for how much a customer still owes on a sale.
type LedgerService struct {
	debtRepo    repository.DebtRepository
	paymentRepo repository.PaymentRepository
	redis       *redis.Client
	config      *config.Config
}

func NewLedgerService(
	debtRepo repository.DebtRepository,
	paymentRepo repository.PaymentRepository,
	redis *redis.Client,
	config *config.Config,
) *LedgerService {
	return &LedgerService{
		debtRepo:    debtRepo,
		paymentRepo: paymentRepo,
		redis:       redis,
		config:      config,
	}
}

// CreateDebt records a new open debt for a credit sale. A sale reference may
// back more than one debt: split credit arrangements are allowed, so no
// dedup check is performed here.
func (s *LedgerService) CreateDebt(ctx context.Context, request *domain.CreateDebtRequest) (*domain.Debt, error) {
	if !request.TotalAmount.IsPositive() {
		return nil, customError.WrapInvalidDebtAmount(request.TotalAmount.String())
	}

	if request.InstallmentCount < 1 {
		return nil, customError.WrapInvalidInstallments(request.InstallmentCount)
	}

	recurrence := request.Recurrence
	if recurrence == "" {
		recurrence = domain.RecurrenceMonthly
	}

	now := time.Now()
	debt := &domain.Debt{
		ID:               uuid.New(),
		SaleRef:          request.SaleRef,
		CustomerRef:      request.CustomerRef,
		CustomerName:     request.CustomerName,
		StoreRef:         request.StoreRef,
		StoreName:        request.StoreName,
		TotalAmount:      request.TotalAmount,
		InstallmentCount: request.InstallmentCount,
		Recurrence:       recurrence,
		CompetencyStart:  utils.CompetencyStart(now),
		Status:           domain.DebtStatusOpen,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.debtRepo.Create(ctx, debt); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateStats(ctx)

	return debt, nil
}

// RecordPayment appends a payment to an open debt and settles the debt once
// cumulative payments reach the total within the settle tolerance. The whole
// check-insert-settle sequence runs inside one repository transaction, so
// concurrent payments against the same debt serialize on its row lock.
// Unknown debts and already-settled debts fail with distinct errors.
func (s *LedgerService) RecordPayment(ctx context.Context, debtID uuid.UUID, request *domain.RecordPaymentRequest) (*domain.RecordPaymentResponse, error) {
	if !request.Amount.IsPositive() {
		return nil, customError.WrapInvalidPaymentAmount(request.Amount.String())
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:            uuid.New(),
		DebtID:        debtID,
		Amount:        request.Amount,
		Responsible:   request.Responsible,
		ProofFilename: request.ProofFilename,
		ProofContent:  request.ProofContent,
		PaidAt:        now,
		CreatedAt:     now,
	}

	result, err := s.paymentRepo.RecordPayment(ctx, payment, s.settleTolerance())
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, customError.WrapDebtNotFound(debtID.String())
		case errors.Is(err, customError.ErrDebtAlreadySettled):
			return nil, customError.WrapDebtAlreadySettled(debtID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateStats(ctx)

	return &domain.RecordPaymentResponse{
		Payment:     payment,
		Outstanding: outstanding(result.TotalAmount, result.TotalPaid),
		DebtStatus:  result.Status,
	}, nil
}

// GetOutstanding returns how much is still owed on a debt, never negative.
func (s *LedgerService) GetOutstanding(ctx context.Context, debtID uuid.UUID) (decimal.Decimal, error) {
	debt, err := s.getDebt(ctx, debtID)
	if err != nil {
		return decimal.Zero, err
	}

	totalPaid, err := s.paymentRepo.GetTotalPaid(ctx, debt.ID)
	if err != nil {
		return decimal.Zero, customError.WrapDatabaseError(err)
	}

	return outstanding(debt.TotalAmount, totalPaid), nil
}

// GetProgress returns the paid percentage of a debt, capped at 100 to
// tolerate overpayment.
func (s *LedgerService) GetProgress(ctx context.Context, debtID uuid.UUID) (decimal.Decimal, error) {
	debt, err := s.getDebt(ctx, debtID)
	if err != nil {
		return decimal.Zero, err
	}

	totalPaid, err := s.paymentRepo.GetTotalPaid(ctx, debt.ID)
	if err != nil {
		return decimal.Zero, customError.WrapDatabaseError(err)
	}

	return progressPercent(debt.TotalAmount, totalPaid), nil
}

// GetDebt returns a debt together with its derived balance figures.
func (s *LedgerService) GetDebt(ctx context.Context, debtID uuid.UUID) (*domain.DebtDetail, error) {
	debt, err := s.getDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}

	totalPaid, err := s.paymentRepo.GetTotalPaid(ctx, debt.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.buildDetail(debt, totalPaid), nil
}

// ListPayments returns a debt's payment history, oldest first.
func (s *LedgerService) ListPayments(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error) {
	if _, err := s.getDebt(ctx, debtID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.GetByDebtID(ctx, debtID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payments, nil
}

// GetStatistics aggregates the whole ledger by debt status. Results are
// cached in Redis and invalidated on every ledger write.
func (s *LedgerService) GetStatistics(ctx context.Context) (*domain.LedgerStatistics, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats domain.LedgerStatistics
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	debts, err := s.debtRepo.ListAll(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	stats := &domain.LedgerStatistics{
		TotalOpenAmount:    decimal.Zero,
		TotalSettledAmount: decimal.Zero,
		OutstandingBalance: decimal.Zero,
		TotalCollected:     decimal.Zero,
	}

	var paidOnOpen decimal.Decimal
	for _, debt := range debts {
		switch debt.Status {
		case domain.DebtStatusSettled:
			stats.SettledCount++
			stats.TotalSettledAmount = stats.TotalSettledAmount.Add(debt.TotalAmount)
		default:
			stats.OpenCount++
			stats.TotalOpenAmount = stats.TotalOpenAmount.Add(debt.TotalAmount)

			totalPaid, err := s.paymentRepo.GetTotalPaid(ctx, debt.ID)
			if err != nil {
				return nil, customError.WrapDatabaseError(err)
			}

			// Cap at the debt total so an overpaid straggler cannot push
			// the outstanding balance negative.
			if totalPaid.GreaterThan(debt.TotalAmount) {
				totalPaid = debt.TotalAmount
			}
			paidOnOpen = paidOnOpen.Add(totalPaid)
		}
	}

	stats.OutstandingBalance = stats.TotalOpenAmount.Sub(paidOnOpen)
	stats.TotalCollected = paidOnOpen.Add(stats.TotalSettledAmount)

	if s.redis != nil {
		if encoded, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, statsCacheKey, encoded, s.statsCacheTTL()).Err(); err != nil {
				log.Printf("Failed to cache ledger statistics: %v", customError.WrapCacheError(err))
			}
		}
	}

	return stats, nil
}

// ListBehindSchedule returns the open debts whose collected amount lags the
// amount expected from their recurrence cadence. Used by the scheduler's
// daily scan.
func (s *LedgerService) ListBehindSchedule(ctx context.Context) ([]*domain.DebtDetail, error) {
	debts, err := s.debtRepo.ListByStatus(ctx, domain.DebtStatusOpen)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	var behind []*domain.DebtDetail
	for _, debt := range debts {
		totalPaid, err := s.paymentRepo.GetTotalPaid(ctx, debt.ID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}

		detail := s.buildDetail(debt, totalPaid)
		if detail.Behind {
			behind = append(behind, detail)
		}
	}

	return behind, nil
}

func (s *LedgerService) getDebt(ctx context.Context, debtID uuid.UUID) (*domain.Debt, error) {
	debt, err := s.debtRepo.GetByID(ctx, debtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(debtID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return debt, nil
}

func (s *LedgerService) buildDetail(debt *domain.Debt, totalPaid decimal.Decimal) *domain.DebtDetail {
	detail := &domain.DebtDetail{
		Debt:             debt,
		TotalPaid:        totalPaid,
		Outstanding:      outstanding(debt.TotalAmount, totalPaid),
		ProgressPercent:  progressPercent(debt.TotalAmount, totalPaid),
		CompetencyPeriod: utils.CompetencyPeriod(debt.CompetencyStart),
	}

	if debt.Status == domain.DebtStatusOpen {
		periods := utils.PeriodsElapsed(debt.CompetencyStart, debt.Recurrence, time.Now())
		expected := utils.ExpectedPaid(debt.TotalAmount, debt.InstallmentCount, periods)
		detail.Behind = totalPaid.LessThan(expected.Sub(s.settleTolerance()))
	}

	return detail
}

func (s *LedgerService) settleTolerance() decimal.Decimal {
	if s.config == nil {
		return decimal.NewFromFloat(0.01)
	}
	return s.config.GetSettleTolerance()
}

func (s *LedgerService) statsCacheTTL() time.Duration {
	if s.config == nil {
		return 5 * time.Minute
	}
	return s.config.GetStatsCacheTTL()
}

func (s *LedgerService) invalidateStats(ctx context.Context) {
	if s.redis != nil {
		s.redis.Del(ctx, statsCacheKey)
	}
}

func outstanding(total, paid decimal.Decimal) decimal.Decimal {
	out := total.Sub(paid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

func progressPercent(total, paid decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}

	pct := paid.Div(total).Mul(oneHundred)
	if pct.GreaterThan(oneHundred) {
		return oneHundred
	}
	return pct
}
