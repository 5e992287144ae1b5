// internal/services/payment_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorsnap/ip-backend/internal/models"
	"github.com/flavorsnap/ip-backend/internal/storage"
)

func TestTransferMovesBalanceAndRecords(t *testing.T) {
	env := newTestEnv()
	from := uuid.New()
	to := uuid.New()
	assetID := uint64(101)

	env.fund(t, from, "USD", 300)

	err := env.store.Atomically(context.Background(), func(tx storage.Store) error {
		return env.payments.Transfer(context.Background(), tx, models.TransactionTypeLicensePurchase,
			&assetID, "USD", from, to, 120)
	})
	require.NoError(t, err)

	assert.Equal(t, int64(180), env.balance(t, from, "USD"))
	assert.Equal(t, int64(120), env.balance(t, to, "USD"))

	history, total, err := env.payments.GetPaymentHistory(context.Background(), to, paginationAll())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, history, 1)
	assert.Equal(t, models.TransactionTypeLicensePurchase, history[0].TransactionType)
	require.NotNil(t, history[0].AssetID)
	assert.Equal(t, assetID, *history[0].AssetID)
	require.NotNil(t, history[0].FromID)
	assert.Equal(t, from, *history[0].FromID)
	assert.Equal(t, to, history[0].ToID)
}

func TestTransferInsufficientFunds(t *testing.T) {
	env := newTestEnv()
	from := uuid.New()
	to := uuid.New()

	env.fund(t, from, "USD", 50)

	err := env.store.Atomically(context.Background(), func(tx storage.Store) error {
		return env.payments.Transfer(context.Background(), tx, models.TransactionTypeRoyalty,
			nil, "USD", from, to, 100)
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(50), env.balance(t, from, "USD"))
	assert.Equal(t, int64(0), env.balance(t, to, "USD"))
}

func TestTransferNegativeAmount(t *testing.T) {
	env := newTestEnv()
	principal := uuid.New()

	err := env.store.Atomically(context.Background(), func(tx storage.Store) error {
		return env.payments.Transfer(context.Background(), tx, models.TransactionTypeRoyalty,
			nil, "USD", principal, uuid.New(), -10)
	})
	assert.ErrorIs(t, err, ErrInvariantViolated)
}

func TestTransferToSelfPreservesBalance(t *testing.T) {
	env := newTestEnv()
	principal := uuid.New()

	env.fund(t, principal, "USD", 100)

	err := env.store.Atomically(context.Background(), func(tx storage.Store) error {
		return env.payments.Transfer(context.Background(), tx, models.TransactionTypeRoyalty,
			nil, "USD", principal, principal, 30)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), env.balance(t, principal, "USD"))
}

func TestDepositCreditedOncePerReference(t *testing.T) {
	env := newTestEnv()
	principal := uuid.New()
	ctx := context.Background()

	require.NoError(t, env.payments.creditDeposit(ctx, principal, "USD", 500, "pi_settled_1"))

	// A replayed confirmation of the same payment is a no-op.
	require.NoError(t, env.payments.creditDeposit(ctx, principal, "USD", 500, "pi_settled_1"))

	assert.Equal(t, int64(500), env.balance(t, principal, "USD"))

	history, total, err := env.payments.GetPaymentHistory(ctx, principal, paginationAll())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, history, 1)
	assert.Equal(t, models.TransactionTypeDeposit, history[0].TransactionType)
	assert.Equal(t, "pi_settled_1", history[0].PaymentReference)
	assert.Nil(t, history[0].FromID)

	// A distinct payment still credits.
	require.NoError(t, env.payments.creditDeposit(ctx, principal, "USD", 200, "pi_settled_2"))
	assert.Equal(t, int64(700), env.balance(t, principal, "USD"))
}

func TestGetBalances(t *testing.T) {
	env := newTestEnv()
	principal := uuid.New()

	env.fund(t, principal, "USD", 100)
	env.fund(t, principal, "EUR", 40)
	env.fund(t, uuid.New(), "USD", 999)

	balances, err := env.payments.GetBalances(context.Background(), principal)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, "EUR", balances[0].Token)
	assert.Equal(t, int64(40), balances[0].Amount)
	assert.Equal(t, "USD", balances[1].Token)
	assert.Equal(t, int64(100), balances[1].Amount)
}
