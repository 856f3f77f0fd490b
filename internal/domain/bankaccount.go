package domain

import (
	"time"

	"github.com/google/uuid"
)

type BankAccount struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	AccountNumber  *string
	LastFourDigits *string
	AccountType    *string
	IsActive       bool
	CreatedAt      time.Time
}
