package domain

import "github.com/shopspring/decimal"

// Payment methods as they arrive from the point-of-sale subsystem.
// Only card methods incur a machine fee.
const (
	PaymentMethodCreditCard = "Credit Card"
	PaymentMethodDebitCard  = "Debit Card"
)

// MaxCreditInstallments is the highest tier in the credit card fee table.
// Installment counts above it are charged at the top tier's rate.
const MaxCreditInstallments = 36

// creditFeeTable maps installment count to the machine fee percentage
// charged on credit card sales. Tier n carries 2n percent, topping out at
// 72% for 36 installments; the table is monotonically non-decreasing.
var creditFeeTable = func() map[int]decimal.Decimal {
	t := make(map[int]decimal.Decimal, MaxCreditInstallments)
	for n := 1; n <= MaxCreditInstallments; n++ {
		t[n] = decimal.NewFromInt(int64(2 * n))
	}
	return t
}()

// CreditFeePercent resolves the machine fee percentage for a credit card
// sale. Counts above the top tier clamp to the top tier's rate; counts below
// one installment are fee-free; a tier missing from the table falls back to
// 2% per installment.
func CreditFeePercent(installments int) decimal.Decimal {
	if installments < 1 {
		return decimal.Zero
	}
	if installments > MaxCreditInstallments {
		installments = MaxCreditInstallments
	}
	if pct, ok := creditFeeTable[installments]; ok {
		return pct
	}
	return decimal.NewFromInt(int64(installments)).Mul(decimal.NewFromInt(2))
}

// SaleValues is the fee breakdown derived for a single sale. It is computed
// on demand and never stored.
type SaleValues struct {
	FeePercent     decimal.Decimal `json:"fee_percent"`
	FeeAmount      decimal.Decimal `json:"fee_amount"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	ResidualProfit decimal.Decimal `json:"residual_profit"`
}

// GrossAmount carries no required tag: validator treats a zero decimal as
// absent, and a zero-value sale is legitimate. The handler rejects negative
// amounts explicitly.
type ComputeSaleValuesRequest struct {
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	Installments  int             `json:"installments"`
	ProductCost   decimal.Decimal `json:"product_cost"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
}

type CommissionResponse struct {
	StoreRef          string          `json:"store_ref"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
}
