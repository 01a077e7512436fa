package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is a single installment payment recorded against a debt.
// Payments are append-only; a debt's balance is always derived by summing them.
type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	DebtID        uuid.UUID       `json:"debt_id" db:"debt_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Responsible   string          `json:"responsible" db:"responsible"`
	ProofFilename string          `json:"proof_filename,omitempty" db:"proof_filename"`
	ProofContent  string          `json:"proof_content,omitempty" db:"proof_content"`
	PaidAt        time.Time       `json:"paid_at" db:"paid_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Responsible   string          `json:"responsible" validate:"required"`
	ProofFilename string          `json:"proof_filename"`
	ProofContent  string          `json:"proof_content"` // base64
}

// PaymentResult reports the state of a debt immediately after a payment
// was committed: the cumulative paid amount, the debt total, and the status
// the write left the debt in.
type PaymentResult struct {
	TotalPaid   decimal.Decimal
	TotalAmount decimal.Decimal
	Status      string
}

type RecordPaymentResponse struct {
	Payment     *Payment        `json:"payment"`
	Outstanding decimal.Decimal `json:"outstanding"`
	DebtStatus  string          `json:"debt_status"`
}
