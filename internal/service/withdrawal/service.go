package withdrawal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/danesper/rewards-backend/internal/config"
	"github.com/danesper/rewards-backend/internal/domain"
)

type withdrawalRepo interface {
	Create(ctx context.Context, tx *sql.Tx, w *domain.Withdrawal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error)
}

type ledgerRepo interface {
	Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error
	SumBalanceTx(ctx context.Context, tx *sql.Tx, userID uuid.UUID) (decimal.Decimal, error)
}

type bankAccountRepo interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.BankAccount, error)
}

type Service struct {
	withdrawals withdrawalRepo
	ledger      ledgerRepo
	accounts    bankAccountRepo
	db          *sql.DB
	config      *config.Config
}

func NewService(
	withdrawals withdrawalRepo,
	ledger ledgerRepo,
	accounts bankAccountRepo,
	db *sql.DB,
	cfg *config.Config,
) *Service {
	return &Service{
		withdrawals: withdrawals,
		ledger:      ledger,
		accounts:    accounts,
		db:          db,
		config:      cfg,
	}
}

// GetForUser fetches a withdrawal by id. Withdrawals belonging to another
// user are reported as not found rather than forbidden.
func (s *Service) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Withdrawal, error) {
	w, err := s.withdrawals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetForUser: %w", err)
	}
	if w.UserID != userID {
		return nil, fmt.Errorf("GetForUser: %w", domain.ErrNotFound)
	}
	return w, nil
}

// Postgres SQLSTATE classes that make the whole attempt safe to retry.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
)

func isRetryableConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == sqlstateSerializationFailure || pqErr.Code == sqlstateDeadlockDetected
}
