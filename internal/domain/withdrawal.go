package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalStatusCompleted WithdrawalStatus = "COMPLETED"
	WithdrawalStatusFailed    WithdrawalStatus = "FAILED"
)

// Withdrawal records one successful conversion of accumulated balance into a
// payout to a linked bank account. Settlement is synchronous, so a row is
// written exactly once and never updated.
type Withdrawal struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Amount        decimal.Decimal
	BankAccountID uuid.UUID
	Currency      string
	Status        WithdrawalStatus
	CreatedAt     time.Time
}
