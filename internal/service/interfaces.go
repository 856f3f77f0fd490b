package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danesper/rewards-backend/internal/domain"
)

type ledgerRepository interface {
	CreateStandalone(ctx context.Context, entry *domain.LedgerEntry) error
	SumBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	GetPage(ctx context.Context, userID uuid.UUID, cursor *uuid.UUID, limit int) ([]domain.LedgerEntry, error)
}

type bankAccountRepository interface {
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) ([]domain.BankAccount, error)
}
