package withdrawal_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danesper/rewards-backend/internal/config"
	"github.com/danesper/rewards-backend/internal/domain"
	"github.com/danesper/rewards-backend/internal/repository"
	"github.com/danesper/rewards-backend/internal/service/withdrawal"
	"github.com/danesper/rewards-backend/internal/testutil"
)

func setupWithdrawalService(t *testing.T, db *sql.DB, timeout time.Duration) *withdrawal.Service {
	t.Helper()
	return withdrawal.NewService(
		repository.NewWithdrawalRepository(db),
		repository.NewLedgerRepository(db),
		repository.NewBankAccountRepository(db),
		db,
		&config.Config{
			MinWithdrawalAmount: decimal.RequireFromString("1.00"),
			WithdrawalTimeout:   timeout,
			TxMaxRetries:        3,
		},
	)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ledgerBalance(t *testing.T, db *sql.DB, userID uuid.UUID) decimal.Decimal {
	t.Helper()
	balance, err := repository.NewLedgerRepository(db).SumBalance(context.Background(), userID)
	require.NoError(t, err)
	return balance
}

func TestCreate_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupWithdrawalService(t, db, 5*time.Second)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "user@test.com", "User")
	account := testutil.SeedBankAccount(t, db, user.ID, true)
	now := time.Now().UTC()
	testutil.SeedLedgerEntry(t, db, user.ID, domain.EntryKindCashback, "25.50", now.Add(-3*time.Hour))
	testutil.SeedLedgerEntry(t, db, user.ID, domain.EntryKindReferralBonus, "10.00", now.Add(-2*time.Hour))
	testutil.SeedLedgerEntry(t, db, user.ID, domain.EntryKindCashback, "15.75", now.Add(-time.Hour))

	w, err := svc.Create(ctx, withdrawal.CreateRequest{
		UserID:        user.ID,
		Amount:        dec("30.00"),
		BankAccountID: account.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusCompleted, w.Status)
	assert.Equal(t, user.ID, w.UserID)
	assert.Equal(t, account.ID, w.BankAccountID)
	assert.Equal(t, "USD", w.Currency)
	assert.True(t, w.Amount.Equal(dec("30.00")))

	// The debit entry and the withdrawal row committed as a pair.
	assert.Equal(t, 1, testutil.CountWithdrawals(t, db, user.ID))
	assert.Equal(t, 1, testutil.CountLedgerEntries(t, db, user.ID, domain.EntryKindWithdrawal))

	var entryAmount decimal.Decimal
	var entryWithdrawalID uuid.UUID
	err = db.QueryRow(
		`SELECT amount, withdrawal_id FROM ledger_entries WHERE user_id = $1 AND kind = $2`,
		user.ID, domain.EntryKindWithdrawal,
	).Scan(&entryAmount, &entryWithdrawalID)
	require.NoError(t, err)
	assert.True(t, entryAmount.Equal(dec("-30.00")), "entry amount: %s", entryAmount)
	assert.Equal(t, w.ID, entryWithdrawalID)

	assert.True(t, ledgerBalance(t, db, user.ID).Equal(dec("21.25")))
}

func TestCreate_InsufficientFunds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupWithdrawalService(t, db, 5*time.Second)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "user@test.com", "User")
	account := testutil.SeedBankAccount(t, db, user.ID, true)
	testutil.SeedLedgerEntry(t, db, user.ID, domain.EntryKindCashback, "10.00", time.Now().UTC())

	_, err := svc.Create(ctx, withdrawal.CreateRequest{
		UserID:        user.ID,
		Amount:        dec("50.00"),
		BankAccountID: account.ID,
	})

	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	var detail *domain.InsufficientFundsError
	require.True(t, errors.As(err, &detail))
	assert.True(t, detail.Balance.Equal(dec("10.00")), "balance: %s", detail.Balance)
	assert.True(t, detail.Requested.Equal(dec("50.00")), "requested: %s", detail.Requested)

	assert.Equal(t, 0, testutil.CountWithdrawals(t, db, user.ID))
	assert.Equal(t, 0, testutil.CountLedgerEntries(t, db, user.ID, domain.EntryKindWithdrawal))
	assert.True(t, ledgerBalance(t, db, user.ID).Equal(dec("10.00")))
}

func TestCreate_ConcurrentOverdraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupWithdrawalService(t, db, 5*time.Second)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "user@test.com", "User")
	account := testutil.SeedBankAccount(t, db, user.ID, true)
	testutil.SeedLedgerEntry(t, db, user.ID, domain.EntryKindCashback, "100.00", time.Now().UTC())

	var wg sync.WaitGroup
	results := make(chan error, 2)

	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, withdrawal.CreateRequest{
				UserID:        user.ID,
				Amount:        dec("100.00"),
				BankAccountID: account.ID,
			})
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	var successes, failures int
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
			failures++
		}
	}

	assert.Equal(t, 1, successes, "exactly one withdrawal should succeed")
	assert.Equal(t, 1, failures, "exactly one withdrawal should fail")

	assert.Equal(t, 1, testutil.CountWithdrawals(t, db, user.ID))
	assert.True(t, ledgerBalance(t, db, user.ID).Equal(decimal.Zero), "balance must be zero, never negative")
}

func TestCreate_BankAccountChecks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupWithdrawalService(t, db, 5*time.Second)
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner@test.com", "Owner")
	other := testutil.SeedTestUser(t, db, "other@test.com", "Other")
	foreignAccount := testutil.SeedBankAccount(t, db, owner.ID, true)
	inactiveAccount := testutil.SeedBankAccount(t, db, other.ID, false)
	testutil.SeedLedgerEntry(t, db, other.ID, domain.EntryKindCashback, "100.00", time.Now().UTC())

	tests := []struct {
		name          string
		bankAccountID uuid.UUID
	}{
		{name: "account of another user", bankAccountID: foreignAccount.ID},
		{name: "inactive account", bankAccountID: inactiveAccount.ID},
		{name: "missing account", bankAccountID: uuid.New()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, withdrawal.CreateRequest{
				UserID:        other.ID,
				Amount:        dec("10.00"),
				BankAccountID: tc.bankAccountID,
			})
			require.ErrorIs(t, err, domain.ErrBankAccountNotFound)
		})
	}

	assert.Equal(t, 0, testutil.CountWithdrawals(t, db, other.ID))
	assert.Equal(t, 0, testutil.CountLedgerEntries(t, db, other.ID, domain.EntryKindWithdrawal))
}

func TestCreate_TimeoutLeavesNoRows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupWithdrawalService(t, db, time.Nanosecond)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "user@test.com", "User")
	account := testutil.SeedBankAccount(t, db, user.ID, true)
	testutil.SeedLedgerEntry(t, db, user.ID, domain.EntryKindCashback, "100.00", time.Now().UTC())

	_, err := svc.Create(ctx, withdrawal.CreateRequest{
		UserID:        user.ID,
		Amount:        dec("10.00"),
		BankAccountID: account.ID,
	})

	require.ErrorIs(t, err, domain.ErrTimeout)
	assert.NotErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.Equal(t, 0, testutil.CountWithdrawals(t, db, user.ID))
	assert.Equal(t, 0, testutil.CountLedgerEntries(t, db, user.ID, domain.EntryKindWithdrawal))
	assert.True(t, ledgerBalance(t, db, user.ID).Equal(dec("100.00")))
}

func TestGetForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupWithdrawalService(t, db, 5*time.Second)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "user@test.com", "User")
	stranger := testutil.SeedTestUser(t, db, "stranger@test.com", "Stranger")
	account := testutil.SeedBankAccount(t, db, user.ID, true)
	testutil.SeedLedgerEntry(t, db, user.ID, domain.EntryKindCashback, "50.00", time.Now().UTC())

	created, err := svc.Create(ctx, withdrawal.CreateRequest{
		UserID:        user.ID,
		Amount:        dec("20.00"),
		BankAccountID: account.ID,
	})
	require.NoError(t, err)

	got, err := svc.GetForUser(ctx, created.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.Amount.Equal(dec("20.00")))

	_, err = svc.GetForUser(ctx, created.ID, stranger.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetForUser(ctx, uuid.New(), user.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
