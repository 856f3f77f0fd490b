package withdrawal

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danesper/rewards-backend/internal/config"
	"github.com/danesper/rewards-backend/internal/domain"
)

func newServiceWithConfig() *Service {
	return &Service{
		config: &config.Config{
			MinWithdrawalAmount: decimal.RequireFromString("1.00"),
		},
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newServiceWithConfig()
	ctx := context.Background()

	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{name: "zero amount", amount: "0", wantErr: domain.ErrInvalidAmount},
		{name: "negative amount", amount: "-5.00", wantErr: domain.ErrInvalidAmount},
		{name: "below minimum", amount: "0.50", wantErr: domain.ErrMinimumAmount},
		{name: "just below minimum", amount: "0.99", wantErr: domain.ErrMinimumAmount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, CreateRequest{
				UserID:        uuid.New(),
				Amount:        decimal.RequireFromString(tc.amount),
				BankAccountID: uuid.New(),
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreate_MinimumAmountDetail(t *testing.T) {
	svc := newServiceWithConfig()

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID:        uuid.New(),
		Amount:        decimal.RequireFromString("0.50"),
		BankAccountID: uuid.New(),
	})
	require.Error(t, err)

	var detail *domain.MinimumAmountError
	require.True(t, errors.As(err, &detail))
	assert.True(t, detail.Minimum.Equal(decimal.RequireFromString("1.00")), "minimum: %s", detail.Minimum)
	assert.True(t, detail.Requested.Equal(decimal.RequireFromString("0.50")), "requested: %s", detail.Requested)
}
