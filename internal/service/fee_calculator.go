package service

import (
	"github.com/shopspring/decimal"
	"github.com/vendacell/fiado-engine/internal/config"
	"github.com/vendacell/fiado-engine/internal/domain"
	"github.com/vendacell/fiado-engine/pkg/utils"
)

var oneHundred = decimal.NewFromInt(100)

// FeeCalculator derives the machine-fee breakdown for a single sale.
// It is stateless: identical inputs always produce identical outputs.
type FeeCalculator struct {
	debitFeePercent decimal.Decimal
}

func NewFeeCalculator(cfg *config.Config) *FeeCalculator {
	return &FeeCalculator{
		debitFeePercent: cfg.GetDebitFeePercent(),
	}
}

// ComputeSaleValues resolves the fee percentage for the payment method and
// derives the fee amount, net value and residual profit of a sale.
// Only card methods incur a fee; the credit card rate depends on the
// installment count, the debit rate is fixed.
func (f *FeeCalculator) ComputeSaleValues(grossAmount decimal.Decimal, installments int, productCost decimal.Decimal, paymentMethod string) *domain.SaleValues {
	feePercent := f.feePercent(installments, paymentMethod)

	feeAmount := utils.RoundMoney(grossAmount.Mul(feePercent).Div(oneHundred))
	netAmount := grossAmount.Sub(feeAmount)
	residualProfit := netAmount.Sub(productCost)

	return &domain.SaleValues{
		FeePercent:     feePercent,
		FeeAmount:      feeAmount,
		NetAmount:      netAmount,
		ResidualProfit: residualProfit,
	}
}

func (f *FeeCalculator) feePercent(installments int, paymentMethod string) decimal.Decimal {
	switch paymentMethod {
	case domain.PaymentMethodCreditCard:
		return domain.CreditFeePercent(installments)
	case domain.PaymentMethodDebitCard:
		return f.debitFeePercent
	default:
		return decimal.Zero
	}
}
