// internal/services/registry_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorsnap/ip-backend/internal/utils"
)

func TestRegisterAsset(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()

	asset, err := env.registry.RegisterAsset(env.as(owner), &RegisterAssetRequest{
		Owner:             owner,
		AssetID:           42,
		MetadataURI:       "ipfs://QmArtwork",
		PriceExclusive:    500,
		PriceNonExclusive: 100,
		PaymentToken:      "USD",
		Tags:              []string{"artwork", "photography"},
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(42), asset.AssetID)
	assert.Equal(t, owner, asset.Owner)
	assert.False(t, asset.HasExclusive)
	assert.Equal(t, uint32(0), asset.ActiveLicenses)

	stored, err := env.registry.GetAsset(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmArtwork", stored.MetadataURI)
	assert.Equal(t, int64(500), stored.PriceExclusive)
	assert.Equal(t, int64(100), stored.PriceNonExclusive)
}

func TestRegisterAssetDuplicate(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	env.registerAsset(t, owner, 42, 500, 100)

	_, err := env.registry.RegisterAsset(env.as(owner), &RegisterAssetRequest{
		Owner:        owner,
		AssetID:      42,
		MetadataURI:  "ipfs://QmOther",
		PaymentToken: "USD",
	})
	assert.ErrorIs(t, err, ErrAssetAlreadyRegistered)
}

func TestRegisterAssetRequiresOwnerPrincipal(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	someoneElse := uuid.New()

	_, err := env.registry.RegisterAsset(env.as(someoneElse), &RegisterAssetRequest{
		Owner:        owner,
		AssetID:      42,
		MetadataURI:  "ipfs://QmArtwork",
		PaymentToken: "USD",
	})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Nothing persisted.
	_, err = env.registry.GetAsset(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestRegisterAssetValidation(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()

	_, err := env.registry.RegisterAsset(env.as(owner), &RegisterAssetRequest{
		Owner:        owner,
		AssetID:      42,
		PaymentToken: "USD",
	})
	assert.Error(t, err)

	_, err = env.registry.RegisterAsset(env.as(owner), &RegisterAssetRequest{
		Owner:             owner,
		AssetID:           42,
		MetadataURI:       "ipfs://QmArtwork",
		PriceNonExclusive: -1,
		PaymentToken:      "USD",
	})
	assert.Error(t, err)
}

func TestGetAssetNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.registry.GetAsset(context.Background(), 999)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestListAssets(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	env.registerAsset(t, owner, 1, 500, 100)
	env.registerAsset(t, owner, 2, 800, 200)
	env.registerAsset(t, owner, 3, 300, 50)

	assets, total, err := env.registry.ListAssets(context.Background(), utils.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, assets, 2)
}
