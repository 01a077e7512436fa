package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DebtStatusOpen    = "open"
	DebtStatusSettled = "settled"
)

const (
	RecurrenceMonthly = "monthly"
	RecurrenceWeekly  = "weekly"
)

// Debt represents a customer's fiado obligation created from a credit sale.
// Debts are append-only: they are never deleted and the open -> settled
// transition is one-way.
type Debt struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	SaleRef          string          `json:"sale_ref" db:"sale_ref"`
	CustomerRef      string          `json:"customer_ref" db:"customer_ref"`
	CustomerName     string          `json:"customer_name" db:"customer_name"`
	StoreRef         string          `json:"store_ref" db:"store_ref"`
	StoreName        string          `json:"store_name" db:"store_name"`
	TotalAmount      decimal.Decimal `json:"total_amount" db:"total_amount"`
	InstallmentCount int             `json:"installment_count" db:"installment_count"`
	Recurrence       string          `json:"recurrence" db:"recurrence"`
	CompetencyStart  time.Time       `json:"competency_start" db:"competency_start"`
	Status           string          `json:"status" db:"status"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// SettleReached reports whether cumulative payments satisfy a debt's total
// within the settle tolerance. The tolerance absorbs rounding drift from
// percentage-based partial payments: a debt of 100.00 paid up to 99.995
// counts as settled.
func SettleReached(total, paid, tolerance decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(total.Sub(tolerance))
}

// DTOs for requests and responses

type CreateDebtRequest struct {
	SaleRef          string          `json:"sale_ref" validate:"required"`
	CustomerRef      string          `json:"customer_ref" validate:"required"`
	CustomerName     string          `json:"customer_name" validate:"required"`
	StoreRef         string          `json:"store_ref" validate:"required"`
	StoreName        string          `json:"store_name"`
	TotalAmount      decimal.Decimal `json:"total_amount" validate:"required"`
	InstallmentCount int             `json:"installment_count" validate:"required,gte=1"`
	Recurrence       string          `json:"recurrence" validate:"required,oneof=monthly weekly"`
}

// DebtDetail is a debt plus its derived balance figures.
type DebtDetail struct {
	Debt             *Debt           `json:"debt"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	ProgressPercent  decimal.Decimal `json:"progress_percent"`
	CompetencyPeriod string          `json:"competency_period"`
	Behind           bool            `json:"behind"`
}

// LedgerStatistics aggregates the whole ledger by debt status.
type LedgerStatistics struct {
	OpenCount          int             `json:"open_count"`
	SettledCount       int             `json:"settled_count"`
	TotalOpenAmount    decimal.Decimal `json:"total_open_amount"`
	TotalSettledAmount decimal.Decimal `json:"total_settled_amount"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	TotalCollected     decimal.Decimal `json:"total_collected"`
}
