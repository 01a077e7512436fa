package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendacell/fiado-engine/internal/domain"
	customError "github.com/vendacell/fiado-engine/pkg/errors"

	"github.com/jmoiron/sqlx"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// RecordPayment runs the whole settle transition as one transaction: the
// debt row is locked, the status re-checked under the lock, the payment
// inserted, and the settle flip applied atomically. A crash anywhere inside
// rolls back the insert, so a fully-paid debt can never be left open with
// the payment committed.
func (r *paymentRepository) RecordPayment(ctx context.Context, payment *domain.Payment, tolerance decimal.Decimal) (*domain.PaymentResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var debt struct {
		TotalAmount decimal.Decimal `db:"total_amount"`
		Status      string          `db:"status"`
	}
	lockQuery := `
		SELECT total_amount, status
		FROM debts
		WHERE id = $1
		FOR UPDATE
	`
	if err := tx.GetContext(ctx, &debt, lockQuery, payment.DebtID); err != nil {
		return nil, err
	}

	if debt.Status == domain.DebtStatusSettled {
		return nil, customError.ErrDebtAlreadySettled
	}

	insertQuery := `
		INSERT INTO payments (id, debt_id, amount, responsible, proof_filename, proof_content, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, insertQuery,
		payment.ID,
		payment.DebtID,
		payment.Amount,
		payment.Responsible,
		payment.ProofFilename,
		payment.ProofContent,
		payment.PaidAt,
		payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	var totalPaid decimal.Decimal
	sumQuery := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE debt_id = $1
	`
	if err := tx.GetContext(ctx, &totalPaid, sumQuery, payment.DebtID); err != nil {
		return nil, err
	}

	status := debt.Status
	if domain.SettleReached(debt.TotalAmount, totalPaid, tolerance) {
		settleQuery := `
			UPDATE debts
			SET status = $2, updated_at = $3
			WHERE id = $1
		`
		if _, err := tx.ExecContext(ctx, settleQuery, payment.DebtID, domain.DebtStatusSettled, time.Now()); err != nil {
			return nil, err
		}
		status = domain.DebtStatusSettled
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.PaymentResult{
		TotalPaid:   totalPaid,
		TotalAmount: debt.TotalAmount,
		Status:      status,
	}, nil
}

func (r *paymentRepository) GetByDebtID(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT id, debt_id, amount, responsible, proof_filename, proof_content, paid_at, created_at
		FROM payments
		WHERE debt_id = $1
		ORDER BY paid_at
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, debtID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) GetTotalPaid(ctx context.Context, debtID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE debt_id = $1
	`

	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, query, debtID)
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
