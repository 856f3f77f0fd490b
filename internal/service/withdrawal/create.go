package withdrawal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danesper/rewards-backend/internal/domain"
	"github.com/danesper/rewards-backend/internal/logging"
)

const DefaultCurrency = "USD"

type CreateRequest struct {
	UserID        uuid.UUID
	Amount        decimal.Decimal
	BankAccountID uuid.UUID
	Currency      string
}

// Create converts accumulated balance into a payout. The whole attempt runs
// as one serializable transaction holding a row lock on the bank account:
// validation, balance recheck, and the withdrawal + debit entry pair commit
// together or not at all. Serialization conflicts are retried a bounded
// number of times before surfacing as ErrTxConflict; hitting the deadline
// surfaces ErrTimeout, in which case the commit outcome is unknown to the
// caller.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Withdrawal, error) {
	log := logging.FromContext(ctx)

	if err := s.validate(req); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.WithdrawalTimeout)
	defer cancel()

	var (
		w   *domain.Withdrawal
		err error
	)
	for attempt := 0; ; attempt++ {
		w, err = s.attempt(ctx, req)
		if err == nil {
			break
		}
		if isRetryableConflict(err) && attempt < s.config.TxMaxRetries {
			log.Warn("withdrawal attempt hit serialization conflict, retrying",
				"user_id", req.UserID,
				"bank_account_id", req.BankAccountID,
				"attempt", attempt+1,
			)
			continue
		}
		return nil, fmt.Errorf("Create: %w", s.classify(ctx, err))
	}

	log.Info("withdrawal completed",
		"withdrawal_id", w.ID,
		"user_id", w.UserID,
		"amount", w.Amount,
		"bank_account_id", w.BankAccountID,
	)

	return w, nil
}

func (s *Service) validate(req CreateRequest) error {
	if !req.Amount.IsPositive() {
		return fmt.Errorf("validate: %w", domain.ErrInvalidAmount)
	}
	if req.Amount.LessThan(s.config.MinWithdrawalAmount) {
		return fmt.Errorf("validate: %w", &domain.MinimumAmountError{
			Minimum:   s.config.MinWithdrawalAmount,
			Requested: req.Amount,
		})
	}
	return nil
}

func (s *Service) attempt(ctx context.Context, req CreateRequest) (*domain.Withdrawal, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("attempt: begin tx: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accounts.GetForUpdate(ctx, tx, req.BankAccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("attempt: %w", domain.ErrBankAccountNotFound)
		}
		return nil, fmt.Errorf("attempt: %w", err)
	}

	// Foreign and inactive accounts look identical to missing ones, so a
	// caller cannot probe for other users' account ids.
	if account.UserID != req.UserID || !account.IsActive {
		return nil, fmt.Errorf("attempt: %w", domain.ErrBankAccountNotFound)
	}

	balance, err := s.ledger.SumBalanceTx(ctx, tx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("attempt: %w", err)
	}

	amount := req.Amount.Round(2)
	if balance.LessThan(amount) {
		return nil, fmt.Errorf("attempt: %w", &domain.InsufficientFundsError{
			Balance:   balance,
			Requested: amount,
		})
	}

	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	now := time.Now().UTC()
	w := &domain.Withdrawal{
		ID:            uuid.New(),
		UserID:        req.UserID,
		Amount:        amount,
		BankAccountID: req.BankAccountID,
		Currency:      currency,
		Status:        domain.WithdrawalStatusCompleted,
		CreatedAt:     now,
	}
	if err := s.withdrawals.Create(ctx, tx, w); err != nil {
		return nil, fmt.Errorf("attempt: create withdrawal: %w", err)
	}

	entry := &domain.LedgerEntry{
		ID:           uuid.New(),
		UserID:       req.UserID,
		Kind:         domain.EntryKindWithdrawal,
		Amount:       amount.Neg(),
		Description:  fmt.Sprintf("Withdrawal %s", w.ID),
		WithdrawalID: &w.ID,
		CreatedAt:    now,
	}
	if err := s.ledger.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("attempt: create ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("attempt: commit: %w", err)
	}

	return w, nil
}

// classify maps low-level failure modes onto the caller-facing taxonomy.
// Deadline expiry means the outcome is unknown, never a proof of failure.
func (s *Service) classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	case isRetryableConflict(err):
		return fmt.Errorf("%w: %w", domain.ErrTxConflict, err)
	default:
		return err
	}
}
