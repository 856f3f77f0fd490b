package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/danesper/rewards-backend/internal/domain"
)

const bankAccountColumns = `id, user_id, account_number, last_four_digits, account_type, is_active, created_at`

type BankAccountRepository struct {
	db *sql.DB
}

func NewBankAccountRepository(db *sql.DB) *BankAccountRepository {
	return &BankAccountRepository{db: db}
}

// GetForUpdate locks the account row until the caller's transaction ends, so
// only one withdrawal attempt per account can be mid-flight at a time.
func (r *BankAccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.BankAccount, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+bankAccountColumns+` FROM bank_accounts WHERE id = $1 FOR UPDATE`, id,
	)
	a, err := scanBankAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return a, nil
}

func (r *BankAccountRepository) GetActiveByUserID(ctx context.Context, userID uuid.UUID) ([]domain.BankAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bankAccountColumns+` FROM bank_accounts
		 WHERE user_id = $1 AND is_active
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetActiveByUserID: %w", err)
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		a, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("GetActiveByUserID: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetActiveByUserID: rows: %w", err)
	}
	return accounts, nil
}

func scanBankAccount(s scanner) (*domain.BankAccount, error) {
	var a domain.BankAccount
	err := s.Scan(
		&a.ID, &a.UserID, &a.AccountNumber, &a.LastFourDigits,
		&a.AccountType, &a.IsActive, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
