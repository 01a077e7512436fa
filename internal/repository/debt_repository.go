package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vendacell/fiado-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type debtRepository struct {
	db *sqlx.DB
}

func NewDebtRepository(db *sqlx.DB) DebtRepository {
	return &debtRepository{db: db}
}

func (r *debtRepository) Create(ctx context.Context, debt *domain.Debt) error {
	query := `
		INSERT INTO debts (id, sale_ref, customer_ref, customer_name, store_ref, store_name, total_amount, installment_count, recurrence, competency_start, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		debt.ID,
		debt.SaleRef,
		debt.CustomerRef,
		debt.CustomerName,
		debt.StoreRef,
		debt.StoreName,
		debt.TotalAmount,
		debt.InstallmentCount,
		debt.Recurrence,
		debt.CompetencyStart,
		debt.Status,
		debt.CreatedAt,
		debt.UpdatedAt,
	)

	return err
}

func (r *debtRepository) GetByID(ctx context.Context, debtID uuid.UUID) (*domain.Debt, error) {
	query := `
		SELECT id, sale_ref, customer_ref, customer_name, store_ref, store_name, total_amount, installment_count, recurrence, competency_start, status, created_at, updated_at
		FROM debts
		WHERE id = $1
	`

	var debt domain.Debt
	err := r.db.GetContext(ctx, &debt, query, debtID)
	if err != nil {
		return nil, err
	}

	return &debt, nil
}

func (r *debtRepository) UpdateStatus(ctx context.Context, debtID uuid.UUID, status string) error {
	query := `
		UPDATE debts
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, debtID, status, time.Now())
	return err
}

func (r *debtRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Debt, error) {
	query := `
		SELECT id, sale_ref, customer_ref, customer_name, store_ref, store_name, total_amount, installment_count, recurrence, competency_start, status, created_at, updated_at
		FROM debts
		WHERE status = $1
		ORDER BY created_at
	`

	var debts []*domain.Debt
	err := r.db.SelectContext(ctx, &debts, query, status)
	if err != nil {
		return nil, err
	}

	return debts, nil
}

func (r *debtRepository) ListAll(ctx context.Context) ([]*domain.Debt, error) {
	query := `
		SELECT id, sale_ref, customer_ref, customer_name, store_ref, store_name, total_amount, installment_count, recurrence, competency_start, status, created_at, updated_at
		FROM debts
		ORDER BY created_at
	`

	var debts []*domain.Debt
	err := r.db.SelectContext(ctx, &debts, query)
	if err != nil {
		return nil, err
	}

	return debts, nil
}
