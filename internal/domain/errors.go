package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrBankAccountNotFound = errors.New("bank account not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrMinimumAmount       = errors.New("amount below minimum")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidCursor       = errors.New("invalid cursor")
	ErrTimeout             = errors.New("operation timed out, commit outcome unknown")
	ErrTxConflict          = errors.New("transaction conflict, retry the operation")
)

// InsufficientFundsError carries the balance that was recomputed inside the
// withdrawal transaction, so the caller sees the exact state it lost against.
type InsufficientFundsError struct {
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %s, requested %s", e.Balance, e.Requested)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

type MinimumAmountError struct {
	Minimum   decimal.Decimal
	Requested decimal.Decimal
}

func (e *MinimumAmountError) Error() string {
	return fmt.Sprintf("amount below minimum: minimum %s, requested %s", e.Minimum, e.Requested)
}

func (e *MinimumAmountError) Unwrap() error { return ErrMinimumAmount }
