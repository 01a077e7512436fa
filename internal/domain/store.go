package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreConfig holds the per-store commission rate paid to sellers.
type StoreConfig struct {
	StoreRef          string          `json:"store_ref" db:"store_ref"`
	Name              string          `json:"name" db:"name"`
	CommissionPercent decimal.Decimal `json:"commission_percent" db:"commission_percent"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}
