// Seeds a demo user, two linked bank accounts, and a few credit entries for
// local development. Safe to run repeatedly.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danesper/rewards-backend/internal/config"
	"github.com/danesper/rewards-backend/internal/domain"
	"github.com/danesper/rewards-backend/internal/logging"
	"github.com/danesper/rewards-backend/internal/repository"
)

var (
	demoUserID     = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	demoCheckingID = uuid.MustParse("00000000-0000-0000-0001-000000000001")
	demoSavingsID  = uuid.MustParse("00000000-0000-0000-0001-000000000002")
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("rewards-seed", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxLifetimeS: 60, ConnMaxIdleTimeS: 30,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := seed(ctx, db); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seed complete", "user_id", demoUserID)
}

func seed(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, email, name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		demoUserID, "demo@rewards.local", "Demo User",
	)
	if err != nil {
		return fmt.Errorf("seed: user: %w", err)
	}

	accounts := []struct {
		id          uuid.UUID
		number      string
		accountType string
	}{
		{demoCheckingID, "1234567890", "Checking"},
		{demoSavingsID, "0987654321", "Savings"},
	}
	for _, a := range accounts {
		_, err := db.ExecContext(ctx,
			`INSERT INTO bank_accounts (id, user_id, account_number, last_four_digits, account_type, is_active)
			 VALUES ($1, $2, $3, $4, $5, TRUE)
			 ON CONFLICT (id) DO NOTHING`,
			a.id, demoUserID, a.number, a.number[len(a.number)-4:], a.accountType,
		)
		if err != nil {
			return fmt.Errorf("seed: bank account %s: %w", a.accountType, err)
		}
	}

	var entryCount int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ledger_entries WHERE user_id = $1`, demoUserID,
	).Scan(&entryCount); err != nil {
		return fmt.Errorf("seed: count entries: %w", err)
	}
	if entryCount > 0 {
		slog.Info("ledger entries already present, skipping", "count", entryCount)
		return nil
	}

	credits := []struct {
		kind        domain.EntryKind
		amount      string
		description string
	}{
		{domain.EntryKindCashback, "25.50", "Cashback from purchase at Store A"},
		{domain.EntryKindReferralBonus, "10.00", "Referral bonus for friend signup"},
		{domain.EntryKindCashback, "15.75", "Cashback from purchase at Store B"},
	}
	for _, c := range credits {
		_, err := db.ExecContext(ctx,
			`INSERT INTO ledger_entries (id, user_id, kind, amount, description)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), demoUserID, c.kind, decimal.RequireFromString(c.amount), c.description,
		)
		if err != nil {
			return fmt.Errorf("seed: ledger entry: %w", err)
		}
	}

	return nil
}
