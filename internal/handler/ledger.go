package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/vendacell/fiado-engine/internal/domain"
	"github.com/vendacell/fiado-engine/internal/service"
	customError "github.com/vendacell/fiado-engine/pkg/errors"
	"github.com/vendacell/fiado-engine/pkg/response"
)

// LedgerService is the debt-ledger surface the handlers depend on.
type LedgerService interface {
	CreateDebt(ctx context.Context, request *domain.CreateDebtRequest) (*domain.Debt, error)
	RecordPayment(ctx context.Context, debtID uuid.UUID, request *domain.RecordPaymentRequest) (*domain.RecordPaymentResponse, error)
	GetDebt(ctx context.Context, debtID uuid.UUID) (*domain.DebtDetail, error)
	ListPayments(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error)
	GetStatistics(ctx context.Context) (*domain.LedgerStatistics, error)
}

// CommissionService resolves per-store commission rates.
type CommissionService interface {
	GetCommissionPercent(ctx context.Context, storeRef string) (decimal.Decimal, error)
}

type LedgerHandler struct {
	ledger     LedgerService
	commission CommissionService
	calculator *service.FeeCalculator
	validator  *validator.Validate
}

func NewLedgerHandler(ledger LedgerService, commission CommissionService, calculator *service.FeeCalculator) *LedgerHandler {
	return &LedgerHandler{
		ledger:     ledger,
		commission: commission,
		calculator: calculator,
		validator:  validator.New(),
	}
}

// ComputeSaleValues handles POST /api/v1/sales/values
func (h *LedgerHandler) ComputeSaleValues(w http.ResponseWriter, r *http.Request) {
	var request domain.ComputeSaleValuesRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	if request.GrossAmount.IsNegative() {
		response.BadRequest(w, "gross_amount must not be negative", nil)
		return
	}

	values := h.calculator.ComputeSaleValues(request.GrossAmount, request.Installments, request.ProductCost, request.PaymentMethod)
	response.Success(w, values)
}

// GetCommission handles GET /api/v1/stores/{storeId}/commission
func (h *LedgerHandler) GetCommission(w http.ResponseWriter, r *http.Request) {
	storeRef := mux.Vars(r)["storeId"]

	pct, err := h.commission.GetCommissionPercent(r.Context(), storeRef)
	if err != nil {
		response.InternalServerError(w, "failed to resolve commission", err)
		return
	}

	response.Success(w, domain.CommissionResponse{
		StoreRef:          storeRef,
		CommissionPercent: pct,
	})
}

// CreateDebt handles POST /api/v1/debts
func (h *LedgerHandler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	debt, err := h.ledger.CreateDebt(r.Context(), &request)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	response.Created(w, debt)
}

// GetDebt handles GET /api/v1/debts/{debtId}
func (h *LedgerHandler) GetDebt(w http.ResponseWriter, r *http.Request) {
	debtID, ok := parseDebtID(w, r)
	if !ok {
		return
	}

	detail, err := h.ledger.GetDebt(r.Context(), debtID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	response.Success(w, detail)
}

// RecordPayment handles POST /api/v1/debts/{debtId}/payments
func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	debtID, ok := parseDebtID(w, r)
	if !ok {
		return
	}

	var request domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	result, err := h.ledger.RecordPayment(r.Context(), debtID, &request)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	response.Created(w, result)
}

// ListPayments handles GET /api/v1/debts/{debtId}/payments
func (h *LedgerHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	debtID, ok := parseDebtID(w, r)
	if !ok {
		return
	}

	payments, err := h.ledger.ListPayments(r.Context(), debtID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	response.Success(w, payments)
}

// GetStatistics handles GET /api/v1/debts/statistics
func (h *LedgerHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledger.GetStatistics(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	response.Success(w, stats)
}

func parseDebtID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	debtID, err := uuid.Parse(mux.Vars(r)["debtId"])
	if err != nil {
		response.BadRequest(w, "invalid debt id", err)
		return uuid.Nil, false
	}
	return debtID, true
}

func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customError.ErrDebtNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, customError.ErrDebtAlreadySettled):
		response.Conflict(w, "debt is already settled", err)
	case errors.Is(err, customError.ErrInvalidDebtAmount),
		errors.Is(err, customError.ErrInvalidInstallments),
		errors.Is(err, customError.ErrInvalidPaymentAmount):
		response.BadRequest(w, "invalid request", err)
	default:
		response.InternalServerError(w, "internal error", err)
	}
}
