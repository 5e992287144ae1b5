// internal/services/testenv_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/flavorsnap/ip-backend/internal/config"
	"github.com/flavorsnap/ip-backend/internal/storage"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

func paginationAll() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 100}
}

type testEnv struct {
	store    *storage.MemoryStore
	payments *PaymentService
	registry *RegistryService
	licenses *LicenseService
	royalty  *RoyaltyService
}

func newTestEnv() *testEnv {
	store := storage.NewMemoryStore()
	cfg := &config.Config{
		Payment: config.PaymentConfig{DefaultToken: "USD"},
	}
	auth := NewContextAuthorizer()
	payments := NewPaymentService(store, cfg)

	return &testEnv{
		store:    store,
		payments: payments,
		registry: NewRegistryService(store, auth),
		licenses: NewLicenseService(store, auth, payments),
		royalty:  NewRoyaltyService(store, auth, payments),
	}
}

// as returns a context carrying the given principal as the authenticated
// caller, the way the auth middleware stamps it for real requests.
func (e *testEnv) as(principal uuid.UUID) context.Context {
	return WithPrincipal(context.Background(), principal)
}

func (e *testEnv) fund(t *testing.T, principal uuid.UUID, token string, amount int64) {
	t.Helper()
	require.NoError(t, e.store.Balances().Set(context.Background(), principal, token, amount))
}

func (e *testEnv) balance(t *testing.T, principal uuid.UUID, token string) int64 {
	t.Helper()
	amount, err := e.store.Balances().Get(context.Background(), principal, token)
	require.NoError(t, err)
	return amount
}

func (e *testEnv) registerAsset(t *testing.T, owner uuid.UUID, assetID uint64, priceExclusive, priceNonExclusive int64) {
	t.Helper()
	_, err := e.registry.RegisterAsset(e.as(owner), &RegisterAssetRequest{
		Owner:             owner,
		AssetID:           assetID,
		MetadataURI:       "ipfs://QmTestMetadata",
		PriceExclusive:    priceExclusive,
		PriceNonExclusive: priceNonExclusive,
		PaymentToken:      "USD",
	})
	require.NoError(t, err)
}
