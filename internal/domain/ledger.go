package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryKindCashback      EntryKind = "CASHBACK"
	EntryKindReferralBonus EntryKind = "REFERRAL_BONUS"
	EntryKindIncome        EntryKind = "INCOME"
	EntryKindWithdrawal    EntryKind = "WITHDRAWAL"
)

// CreditKinds lists every entry kind that adds to a balance. WITHDRAWAL is
// the only debit kind.
func CreditKinds() []EntryKind {
	return []EntryKind{EntryKindCashback, EntryKindReferralBonus, EntryKindIncome}
}

func (k EntryKind) IsCredit() bool {
	return k == EntryKindCashback || k == EntryKindReferralBonus || k == EntryKindIncome
}

func (k EntryKind) IsValid() bool {
	return k.IsCredit() || k == EntryKindWithdrawal
}

// LedgerEntry is one immutable balance-affecting event. Credit kinds carry a
// positive amount, WITHDRAWAL entries a negative one whose magnitude equals
// the paired withdrawal amount. Entries are never updated or deleted.
type LedgerEntry struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Kind         EntryKind
	Amount       decimal.Decimal
	Description  string
	WithdrawalID *uuid.UUID
	CreatedAt    time.Time
}
