package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danesper/rewards-backend/internal/domain"
)

func SeedTestUser(t *testing.T, db *sql.DB, email, name string) *domain.User {
	t.Helper()

	u := &domain.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.Exec(
		`INSERT INTO users (id, email, name, created_at) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.Name, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test user %s: %v", email, err)
	}
	return u
}

func SeedBankAccount(t *testing.T, db *sql.DB, userID uuid.UUID, active bool) *domain.BankAccount {
	t.Helper()

	number := "1234567890"
	lastFour := "7890"
	accountType := "Checking"
	a := &domain.BankAccount{
		ID:             uuid.New(),
		UserID:         userID,
		AccountNumber:  &number,
		LastFourDigits: &lastFour,
		AccountType:    &accountType,
		IsActive:       active,
		CreatedAt:      time.Now().UTC(),
	}
	_, err := db.Exec(
		`INSERT INTO bank_accounts (id, user_id, account_number, last_four_digits, account_type, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.UserID, a.AccountNumber, a.LastFourDigits, a.AccountType, a.IsActive, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed bank account for %s: %v", userID, err)
	}
	return a
}

func SeedLedgerEntry(t *testing.T, db *sql.DB, userID uuid.UUID, kind domain.EntryKind, amount string, createdAt time.Time) *domain.LedgerEntry {
	t.Helper()

	e := &domain.LedgerEntry{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        kind,
		Amount:      decimal.RequireFromString(amount),
		Description: "seeded " + string(kind),
		CreatedAt:   createdAt,
	}
	_, err := db.Exec(
		`INSERT INTO ledger_entries (id, user_id, kind, amount, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.UserID, e.Kind, e.Amount, e.Description, e.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed ledger entry for %s: %v", userID, err)
	}
	return e
}

func CountWithdrawals(t *testing.T, db *sql.DB, userID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM withdrawals WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		t.Fatalf("count withdrawals for %s: %v", userID, err)
	}
	return count
}

func CountLedgerEntries(t *testing.T, db *sql.DB, userID uuid.UUID, kind domain.EntryKind) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM ledger_entries WHERE user_id = $1 AND kind = $2`, userID, kind,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count ledger entries for %s: %v", userID, err)
	}
	return count
}
