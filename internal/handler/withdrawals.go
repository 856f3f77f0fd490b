package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danesper/rewards-backend/internal/auth"
	"github.com/danesper/rewards-backend/internal/domain"
	"github.com/danesper/rewards-backend/internal/logging"
	"github.com/danesper/rewards-backend/internal/service/withdrawal"
)

type withdrawalService interface {
	Create(ctx context.Context, req withdrawal.CreateRequest) (*domain.Withdrawal, error)
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Withdrawal, error)
}

type WithdrawalHandler struct {
	withdrawals withdrawalService
}

func NewWithdrawalHandler(withdrawals withdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals}
}

type createWithdrawalRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	BankAccountID string          `json:"bank_account_id"`
	Currency      string          `json:"currency"`
}

func (r createWithdrawalRequest) Validate() []FieldError {
	var errs []FieldError

	if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}

	if r.BankAccountID == "" {
		errs = append(errs, FieldError{Field: "bank_account_id", Message: "required"})
	} else if _, err := uuid.Parse(r.BankAccountID); err != nil {
		errs = append(errs, FieldError{Field: "bank_account_id", Message: "must be a uuid"})
	}

	return errs
}

type withdrawalDTO struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	BankAccountID uuid.UUID       `json:"bank_account_id"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toWithdrawalDTO(w *domain.Withdrawal) withdrawalDTO {
	return withdrawalDTO{
		ID:            w.ID,
		UserID:        w.UserID,
		Amount:        w.Amount,
		BankAccountID: w.BankAccountID,
		Currency:      w.Currency,
		Status:        string(w.Status),
		CreatedAt:     w.CreatedAt,
	}
}

func (h *WithdrawalHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req createWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	bankAccountID, _ := uuid.Parse(req.BankAccountID)

	result, err := h.withdrawals.Create(r.Context(), withdrawal.CreateRequest{
		UserID:        userID,
		Amount:        req.Amount,
		BankAccountID: bankAccountID,
		Currency:      req.Currency,
	})
	if err != nil {
		log.Warn("withdrawal creation failed", "error", err, "user_id", userID)
		RespondDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/withdrawals/%s", result.ID))
	RespondSuccess(w, http.StatusCreated, toWithdrawalDTO(result))
}

func (h *WithdrawalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	withdrawalID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	result, err := h.withdrawals.GetForUser(r.Context(), withdrawalID, userID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("withdrawal lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toWithdrawalDTO(result))
}
