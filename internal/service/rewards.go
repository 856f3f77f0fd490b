package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danesper/rewards-backend/internal/domain"
	"github.com/danesper/rewards-backend/internal/logging"
)

const (
	DefaultCurrency = "USD"

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100

	// Manual credits are tagged so they can be told apart from real
	// producer events in the ledger.
	manualTopUpMarker = "[MANUAL_TEST_TOPUP]"
)

var minIncomeAmount = decimal.RequireFromString("0.01")

type BalanceSummary struct {
	Balance  decimal.Decimal
	Currency string
}

type TransactionPage struct {
	Entries    []domain.LedgerEntry
	NextCursor *string
	HasMore    bool
}

type RewardsService struct {
	ledger ledgerRepository
}

func NewRewardsService(ledger ledgerRepository) *RewardsService {
	return &RewardsService{ledger: ledger}
}

// GetBalance derives the user's balance from the ledger: credit entries
// summed, withdrawal magnitudes subtracted, rounded to minor-unit precision.
// Nothing is cached; every call is a fresh projection over committed state.
func (s *RewardsService) GetBalance(ctx context.Context, userID uuid.UUID) (*BalanceSummary, error) {
	balance, err := s.ledger.SumBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GetBalance: %w", err)
	}
	return &BalanceSummary{Balance: balance, Currency: DefaultCurrency}, nil
}

// GetTransactions pages through the user's ledger in (created_at DESC,
// id DESC) order. The id tie-break keeps the order deterministic when
// entries share a timestamp. hasMore is false exactly when nextCursor is nil.
func (s *RewardsService) GetTransactions(ctx context.Context, userID uuid.UUID, cursor string, limit int) (*TransactionPage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	var cursorID *uuid.UUID
	if cursor != "" {
		id, err := decodeCursor(cursor)
		if err != nil {
			return nil, fmt.Errorf("GetTransactions: %w", err)
		}
		cursorID = &id
	}

	entries, err := s.ledger.GetPage(ctx, userID, cursorID, limit)
	if err != nil {
		return nil, fmt.Errorf("GetTransactions: %w", err)
	}

	page := &TransactionPage{Entries: entries}
	if len(entries) > limit {
		page.Entries = entries[:limit]
		page.HasMore = true
		next := encodeCursor(page.Entries[limit-1].ID)
		page.NextCursor = &next
	}
	return page, nil
}

// CreateIncome appends a manual INCOME credit. It exists for development and
// testing; the handler refuses it in production.
func (s *RewardsService) CreateIncome(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*domain.LedgerEntry, error) {
	if amount.LessThan(minIncomeAmount) {
		return nil, fmt.Errorf("CreateIncome: %w", &domain.MinimumAmountError{
			Minimum:   minIncomeAmount,
			Requested: amount,
		})
	}

	if description == "" {
		description = "Manual test top-up"
	}

	entry := &domain.LedgerEntry{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        domain.EntryKindIncome,
		Amount:      amount.Round(2),
		Description: fmt.Sprintf("%s %s", description, manualTopUpMarker),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.ledger.CreateStandalone(ctx, entry); err != nil {
		return nil, fmt.Errorf("CreateIncome: %w", err)
	}

	logging.FromContext(ctx).Info("income credit recorded",
		"entry_id", entry.ID,
		"user_id", userID,
		"amount", entry.Amount,
	)

	return entry, nil
}

// Cursors are the base64url-encoded id of the last entry the caller saw;
// opaque to clients, stable across inserts above or below the position.
func encodeCursor(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString(id[:])
}

func decodeCursor(cursor string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return uuid.Nil, fmt.Errorf("decodeCursor: %w", domain.ErrInvalidCursor)
	}
	id, err := uuid.FromBytes(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("decodeCursor: %w", domain.ErrInvalidCursor)
	}
	return id, nil
}
