package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrDebtNotFound         = errors.New("debt not found")
	ErrDebtAlreadySettled   = errors.New("debt is already settled")
	ErrInvalidDebtAmount    = errors.New("invalid debt amount")
	ErrInvalidInstallments  = errors.New("invalid installment count")
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeDebtNotFound         = "DEBT_NOT_FOUND"
	ErrCodeDebtAlreadySettled   = "DEBT_ALREADY_SETTLED"
	ErrCodeInvalidDebtAmount    = "INVALID_DEBT_AMOUNT"
	ErrCodeInvalidInstallments  = "INVALID_INSTALLMENT_COUNT"
	ErrCodeInvalidPaymentAmount = "INVALID_PAYMENT_AMOUNT"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapDebtNotFound(debtID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDebtNotFound,
		fmt.Sprintf("Debt with ID %s not found", debtID),
		ErrDebtNotFound,
	)
}

func WrapDebtAlreadySettled(debtID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDebtAlreadySettled,
		fmt.Sprintf("Debt with ID %s is already settled", debtID),
		ErrDebtAlreadySettled,
	)
}

func WrapInvalidDebtAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDebtAmount,
		fmt.Sprintf("Debt amount must be greater than zero, got %s", amount),
		ErrInvalidDebtAmount,
	)
}

func WrapInvalidInstallments(count int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInstallments,
		fmt.Sprintf("Installment count must be at least 1, got %d", count),
		ErrInvalidInstallments,
	)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Payment amount must be greater than zero, got %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
