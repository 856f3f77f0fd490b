package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/danesper/rewards-backend/internal/domain"
)

const withdrawalColumns = `id, user_id, amount, bank_account_id, currency, status, created_at`

type WithdrawalRepository struct {
	db *sql.DB
}

func NewWithdrawalRepository(db *sql.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) Create(ctx context.Context, tx *sql.Tx, w *domain.Withdrawal) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO withdrawals (id, user_id, amount, bank_account_id, currency, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.ID, w.UserID, w.Amount, w.BankAccountID, w.Currency, w.Status, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *WithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id,
	)
	w, err := scanWithdrawal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return w, nil
}

func scanWithdrawal(s scanner) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	err := s.Scan(
		&w.ID, &w.UserID, &w.Amount, &w.BankAccountID,
		&w.Currency, &w.Status, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
