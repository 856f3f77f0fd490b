package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/danesper/rewards-backend/internal/domain"
)

const ledgerColumns = `id, user_id, kind, amount, description, withdrawal_id, created_at`

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (id, user_id, kind, amount, description, withdrawal_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.UserID, entry.Kind, entry.Amount,
		entry.Description, entry.WithdrawalID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// CreateStandalone appends a credit entry outside any transaction, for event
// producers like the manual income endpoint.
func (r *LedgerRepository) CreateStandalone(ctx context.Context, entry *domain.LedgerEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ledger_entries (id, user_id, kind, amount, description, withdrawal_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.UserID, entry.Kind, entry.Amount,
		entry.Description, entry.WithdrawalID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("CreateStandalone: %w", err)
	}
	return nil
}

// SumBalance derives the user's balance from committed ledger state.
func (r *LedgerRepository) SumBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return sumBalance(ctx, r.db, userID)
}

// SumBalanceTx derives the balance inside the caller's transaction, so a
// withdrawal validates against the same snapshot it commits into.
func (r *LedgerRepository) SumBalanceTx(ctx context.Context, tx *sql.Tx, userID uuid.UUID) (decimal.Decimal, error) {
	return sumBalance(ctx, tx, userID)
}

func sumBalance(ctx context.Context, q rowQuerier, userID uuid.UUID) (decimal.Decimal, error) {
	kinds := domain.CreditKinds()
	creditKinds := make([]string, len(kinds))
	for i, k := range kinds {
		creditKinds[i] = string(k)
	}

	var credits decimal.Decimal
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM ledger_entries
		 WHERE user_id = $1 AND kind = ANY($2)`,
		userID, pq.Array(creditKinds),
	).Scan(&credits)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sumBalance: credits: %w", err)
	}

	var debits decimal.Decimal
	err = q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(ABS(amount)), 0) FROM ledger_entries
		 WHERE user_id = $1 AND kind = $2`,
		userID, domain.EntryKindWithdrawal,
	).Scan(&debits)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sumBalance: debits: %w", err)
	}

	return credits.Sub(debits).Round(2), nil
}

// GetPage returns up to limit+1 entries in (created_at DESC, id DESC) order,
// positioned strictly after the cursor entry when one is given. The caller
// uses the probe row to decide hasMore and must not return it.
func (r *LedgerRepository) GetPage(ctx context.Context, userID uuid.UUID, cursor *uuid.UUID, limit int) ([]domain.LedgerEntry, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if cursor == nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+ledgerColumns+` FROM ledger_entries
			 WHERE user_id = $1
			 ORDER BY created_at DESC, id DESC
			 LIMIT $2`,
			userID, limit+1,
		)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+ledgerColumns+` FROM ledger_entries
			 WHERE user_id = $1
			   AND (created_at, id) < (SELECT created_at, id FROM ledger_entries WHERE id = $2)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $3`,
			userID, *cursor, limit+1,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("GetPage: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("GetPage: scan: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetPage: rows: %w", err)
	}
	return entries, nil
}

func scanLedgerEntry(s scanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := s.Scan(
		&e.ID, &e.UserID, &e.Kind, &e.Amount,
		&e.Description, &e.WithdrawalID, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
