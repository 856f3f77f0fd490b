package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danesper/rewards-backend/internal/auth"
	"github.com/danesper/rewards-backend/internal/domain"
	"github.com/danesper/rewards-backend/internal/logging"
	"github.com/danesper/rewards-backend/internal/service"
)

type rewardsService interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*service.BalanceSummary, error)
	GetTransactions(ctx context.Context, userID uuid.UUID, cursor string, limit int) (*service.TransactionPage, error)
	CreateIncome(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*domain.LedgerEntry, error)
}

type RewardsHandler struct {
	rewards       rewardsService
	incomeEnabled bool
}

func NewRewardsHandler(rewards rewardsService, incomeEnabled bool) *RewardsHandler {
	return &RewardsHandler{rewards: rewards, incomeEnabled: incomeEnabled}
}

type balanceSummaryDTO struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

type transactionDTO struct {
	ID           uuid.UUID       `json:"id"`
	Kind         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	WithdrawalID *uuid.UUID      `json:"withdrawal_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type transactionPageDTO struct {
	Transactions []transactionDTO `json:"transactions"`
	NextCursor   *string          `json:"next_cursor"`
	HasMore      bool             `json:"has_more"`
	Count        int              `json:"count"`
}

func toTransactionDTO(e *domain.LedgerEntry) transactionDTO {
	return transactionDTO{
		ID:           e.ID,
		Kind:         string(e.Kind),
		Amount:       e.Amount,
		Description:  e.Description,
		WithdrawalID: e.WithdrawalID,
		CreatedAt:    e.CreatedAt,
	}
}

func (h *RewardsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	summary, err := h.rewards.GetBalance(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to compute balance", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, balanceSummaryDTO{
		Balance:  summary.Balance,
		Currency: summary.Currency,
	})
}

func (h *RewardsHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "limit", Message: "must be an integer"}})
			return
		}
		limit = n
	}

	page, err := h.rewards.GetTransactions(r.Context(), userID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		logging.FromContext(r.Context()).Warn("transaction history fetch failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, len(page.Entries))
	for i := range page.Entries {
		dtos[i] = toTransactionDTO(&page.Entries[i])
	}

	RespondSuccess(w, http.StatusOK, transactionPageDTO{
		Transactions: dtos,
		NextCursor:   page.NextCursor,
		HasMore:      page.HasMore,
		Count:        len(dtos),
	})
}

type createIncomeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (r createIncomeRequest) Validate() []FieldError {
	var errs []FieldError
	if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	return errs
}

func (h *RewardsHandler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	if !h.incomeEnabled {
		RespondAppError(w, ErrIncomeDisabled, nil)
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req createIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	entry, err := h.rewards.CreateIncome(r.Context(), userID, req.Amount, req.Description)
	if err != nil {
		logging.FromContext(r.Context()).Warn("income creation failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(entry))
}
