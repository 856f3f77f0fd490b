package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danesper/rewards-backend/internal/auth"
	"github.com/danesper/rewards-backend/internal/domain"
	"github.com/danesper/rewards-backend/internal/logging"
)

type bankAccountService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.BankAccount, error)
}

type BankAccountHandler struct {
	accounts bankAccountService
}

func NewBankAccountHandler(accounts bankAccountService) *BankAccountHandler {
	return &BankAccountHandler{accounts: accounts}
}

type bankAccountDTO struct {
	ID             uuid.UUID `json:"id"`
	LastFourDigits string    `json:"last_four_digits"`
	AccountType    *string   `json:"account_type"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Full account numbers never leave the service; responses carry the stored
// last-four digits, falling back to the tail of the account number.
func maskAccountNumber(a *domain.BankAccount) string {
	if a.LastFourDigits != nil && *a.LastFourDigits != "" {
		return *a.LastFourDigits
	}
	if a.AccountNumber != nil && len(*a.AccountNumber) >= 4 {
		return (*a.AccountNumber)[len(*a.AccountNumber)-4:]
	}
	return "xxxx"
}

func toBankAccountDTO(a *domain.BankAccount) bankAccountDTO {
	return bankAccountDTO{
		ID:             a.ID,
		LastFourDigits: maskAccountNumber(a),
		AccountType:    a.AccountType,
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt,
	}
}

type bankAccountListDTO struct {
	Accounts []bankAccountDTO `json:"accounts"`
	Count    int              `json:"count"`
}

func (h *BankAccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	accounts, err := h.accounts.ListForUser(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list bank accounts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]bankAccountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toBankAccountDTO(&accounts[i])
	}

	RespondSuccess(w, http.StatusOK, bankAccountListDTO{Accounts: dtos, Count: len(dtos)})
}
