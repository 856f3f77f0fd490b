package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/danesper/rewards-backend/internal/domain"
)

type BankAccountService struct {
	accounts bankAccountRepository
}

func NewBankAccountService(accounts bankAccountRepository) *BankAccountService {
	return &BankAccountService{accounts: accounts}
}

// ListForUser returns the user's active linked accounts, newest first.
func (s *BankAccountService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.BankAccount, error) {
	accounts, err := s.accounts.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ListForUser: %w", err)
	}
	return accounts, nil
}
