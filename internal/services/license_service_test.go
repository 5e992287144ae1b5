// internal/services/license_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorsnap/ip-backend/internal/models"
)

func TestPurchaseNonExclusiveLicense(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	buyer := uuid.New()

	env.registerAsset(t, owner, 101, 500, 100)
	env.fund(t, buyer, "USD", 250)

	license, err := env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     101,
		LicenseType: models.LicenseTypeNonExclusive,
	})
	require.NoError(t, err)
	assert.True(t, license.IsActive)
	assert.Equal(t, models.LicenseTypeNonExclusive, license.LicenseType)

	// Price moved from buyer to owner.
	assert.Equal(t, int64(150), env.balance(t, buyer, "USD"))
	assert.Equal(t, int64(100), env.balance(t, owner, "USD"))

	asset, err := env.registry.GetAsset(context.Background(), 101)
	require.NoError(t, err)
	assert.False(t, asset.HasExclusive)
	assert.Equal(t, uint32(1), asset.ActiveLicenses)
}

func TestPurchaseExclusiveLicense(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	buyer := uuid.New()

	env.registerAsset(t, owner, 101, 500, 100)
	env.fund(t, buyer, "USD", 600)

	license, err := env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     101,
		LicenseType: models.LicenseTypeExclusive,
	})
	require.NoError(t, err)
	assert.Equal(t, models.LicenseTypeExclusive, license.LicenseType)

	assert.Equal(t, int64(100), env.balance(t, buyer, "USD"))
	assert.Equal(t, int64(500), env.balance(t, owner, "USD"))

	asset, err := env.registry.GetAsset(context.Background(), 101)
	require.NoError(t, err)
	assert.True(t, asset.HasExclusive)
	assert.Equal(t, uint32(0), asset.ActiveLicenses)
}

func TestExclusiveBlockedWhileNonExclusiveOutstanding(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	first := uuid.New()
	second := uuid.New()

	env.registerAsset(t, owner, 101, 500, 100)
	env.fund(t, first, "USD", 100)
	env.fund(t, second, "USD", 500)

	_, err := env.licenses.PurchaseLicense(env.as(first), &PurchaseLicenseRequest{
		Licensee:    first,
		AssetID:     101,
		LicenseType: models.LicenseTypeNonExclusive,
	})
	require.NoError(t, err)

	_, err = env.licenses.PurchaseLicense(env.as(second), &PurchaseLicenseRequest{
		Licensee:    second,
		AssetID:     101,
		LicenseType: models.LicenseTypeExclusive,
	})
	assert.ErrorIs(t, err, ErrActiveLicensesExist)

	// The failed attempt moved no money.
	assert.Equal(t, int64(500), env.balance(t, second, "USD"))
	assert.Equal(t, int64(100), env.balance(t, owner, "USD"))
}

func TestExclusiveBlocksAllFurtherPurchases(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	holder := uuid.New()
	latecomer := uuid.New()

	env.registerAsset(t, owner, 101, 500, 100)
	env.fund(t, holder, "USD", 500)
	env.fund(t, latecomer, "USD", 1000)

	_, err := env.licenses.PurchaseLicense(env.as(holder), &PurchaseLicenseRequest{
		Licensee:    holder,
		AssetID:     101,
		LicenseType: models.LicenseTypeExclusive,
	})
	require.NoError(t, err)

	for _, licenseType := range []models.LicenseType{models.LicenseTypeNonExclusive, models.LicenseTypeExclusive} {
		_, err = env.licenses.PurchaseLicense(env.as(latecomer), &PurchaseLicenseRequest{
			Licensee:    latecomer,
			AssetID:     101,
			LicenseType: licenseType,
		})
		assert.ErrorIs(t, err, ErrExclusiveAlreadyIssued)
	}
	assert.Equal(t, int64(1000), env.balance(t, latecomer, "USD"))
}

func TestPurchaseDuplicateActiveLicense(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	buyer := uuid.New()

	env.registerAsset(t, owner, 101, 500, 100)
	env.fund(t, buyer, "USD", 300)

	_, err := env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     101,
		LicenseType: models.LicenseTypeNonExclusive,
	})
	require.NoError(t, err)

	_, err = env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     101,
		LicenseType: models.LicenseTypeNonExclusive,
	})
	assert.ErrorIs(t, err, ErrLicenseAlreadyExists)

	// Only the first purchase was charged.
	assert.Equal(t, int64(200), env.balance(t, buyer, "USD"))
}

func TestPurchaseInsufficientFundsLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	buyer := uuid.New()

	env.registerAsset(t, owner, 101, 500, 100)
	env.fund(t, buyer, "USD", 50)

	_, err := env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     101,
		LicenseType: models.LicenseTypeNonExclusive,
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assert.Equal(t, int64(50), env.balance(t, buyer, "USD"))
	assert.Equal(t, int64(0), env.balance(t, owner, "USD"))

	asset, err := env.registry.GetAsset(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), asset.ActiveLicenses)

	_, err = env.licenses.GetLicense(context.Background(), 101, buyer)
	assert.ErrorIs(t, err, ErrLicenseNotFound)

	// No movement was recorded either.
	history, total, err := env.payments.GetPaymentHistory(context.Background(), buyer, paginationAll())
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, history)
}

func TestPurchaseAssetNotFound(t *testing.T) {
	env := newTestEnv()
	buyer := uuid.New()

	_, err := env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     999,
		LicenseType: models.LicenseTypeNonExclusive,
	})
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestPurchaseInvalidLicenseType(t *testing.T) {
	env := newTestEnv()
	buyer := uuid.New()

	_, err := env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     101,
		LicenseType: "perpetual",
	})
	assert.Error(t, err)
}

func TestPurchaseRequiresLicenseePrincipal(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	buyer := uuid.New()

	env.registerAsset(t, owner, 101, 500, 100)

	_, err := env.licenses.PurchaseLicense(env.as(uuid.New()), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     101,
		LicenseType: models.LicenseTypeNonExclusive,
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRevokeNonExclusiveLicense(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	buyer := uuid.New()

	env.registerAsset(t, owner, 101, 500, 100)
	env.fund(t, buyer, "USD", 100)

	_, err := env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     101,
		LicenseType: models.LicenseTypeNonExclusive,
	})
	require.NoError(t, err)

	err = env.licenses.RevokeLicense(env.as(owner), &RevokeLicenseRequest{
		Owner:    owner,
		Licensee: buyer,
		AssetID:  101,
	})
	require.NoError(t, err)

	license, err := env.licenses.GetLicense(context.Background(), 101, buyer)
	require.NoError(t, err)
	assert.False(t, license.IsActive)

	asset, err := env.registry.GetAsset(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), asset.ActiveLicenses)

	// Revocation does not refund.
	assert.Equal(t, int64(0), env.balance(t, buyer, "USD"))
	assert.Equal(t, int64(100), env.balance(t, owner, "USD"))
}

func TestRevokeExclusiveReopensAsset(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	holder := uuid.New()
	next := uuid.New()

	env.registerAsset(t, owner, 101, 500, 100)
	env.fund(t, holder, "USD", 500)
	env.fund(t, next, "USD", 100)

	_, err := env.licenses.PurchaseLicense(env.as(holder), &PurchaseLicenseRequest{
		Licensee:    holder,
		AssetID:     101,
		LicenseType: models.LicenseTypeExclusive,
	})
	require.NoError(t, err)

	err = env.licenses.RevokeLicense(env.as(owner), &RevokeLicenseRequest{
		Owner:    owner,
		Licensee: holder,
		AssetID:  101,
	})
	require.NoError(t, err)

	asset, err := env.registry.GetAsset(context.Background(), 101)
	require.NoError(t, err)
	assert.False(t, asset.HasExclusive)

	// A new purchase goes through once the exclusive grant is gone.
	_, err = env.licenses.PurchaseLicense(env.as(next), &PurchaseLicenseRequest{
		Licensee:    next,
		AssetID:     101,
		LicenseType: models.LicenseTypeNonExclusive,
	})
	assert.NoError(t, err)
}

func TestRepurchaseAfterRevokeOverwritesRecord(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	buyer := uuid.New()

	env.registerAsset(t, owner, 101, 500, 100)
	env.fund(t, buyer, "USD", 600)

	_, err := env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     101,
		LicenseType: models.LicenseTypeNonExclusive,
	})
	require.NoError(t, err)

	err = env.licenses.RevokeLicense(env.as(owner), &RevokeLicenseRequest{
		Owner:    owner,
		Licensee: buyer,
		AssetID:  101,
	})
	require.NoError(t, err)

	// The same pair can buy again, switching license type; the revoked
	// record is replaced wholesale.
	_, err = env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     101,
		LicenseType: models.LicenseTypeExclusive,
	})
	require.NoError(t, err)

	license, err := env.licenses.GetLicense(context.Background(), 101, buyer)
	require.NoError(t, err)
	assert.True(t, license.IsActive)
	assert.Equal(t, models.LicenseTypeExclusive, license.LicenseType)

	asset, err := env.registry.GetAsset(context.Background(), 101)
	require.NoError(t, err)
	assert.True(t, asset.HasExclusive)
	assert.Equal(t, uint32(0), asset.ActiveLicenses)
}

func TestRevokeByNonOwner(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	buyer := uuid.New()
	attacker := uuid.New()

	env.registerAsset(t, owner, 101, 500, 100)
	env.fund(t, buyer, "USD", 100)

	_, err := env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     101,
		LicenseType: models.LicenseTypeNonExclusive,
	})
	require.NoError(t, err)

	err = env.licenses.RevokeLicense(env.as(attacker), &RevokeLicenseRequest{
		Owner:    attacker,
		Licensee: buyer,
		AssetID:  101,
	})
	assert.ErrorIs(t, err, ErrUnauthorized)

	license, err := env.licenses.GetLicense(context.Background(), 101, buyer)
	require.NoError(t, err)
	assert.True(t, license.IsActive)
}

func TestRevokeMissingLicense(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	stranger := uuid.New()

	env.registerAsset(t, owner, 7, 500, 100)

	err := env.licenses.RevokeLicense(env.as(owner), &RevokeLicenseRequest{
		Owner:    owner,
		Licensee: stranger,
		AssetID:  7,
	})
	assert.ErrorIs(t, err, ErrLicenseNotFound)

	asset, err := env.registry.GetAsset(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, asset.HasExclusive)
	assert.Equal(t, uint32(0), asset.ActiveLicenses)
}

func TestRevokeAlreadyRevokedLicense(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	buyer := uuid.New()

	env.registerAsset(t, owner, 101, 500, 100)
	env.fund(t, buyer, "USD", 100)

	_, err := env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     101,
		LicenseType: models.LicenseTypeNonExclusive,
	})
	require.NoError(t, err)

	req := &RevokeLicenseRequest{Owner: owner, Licensee: buyer, AssetID: 101}
	require.NoError(t, env.licenses.RevokeLicense(env.as(owner), req))

	err = env.licenses.RevokeLicense(env.as(owner), req)
	assert.ErrorIs(t, err, ErrLicenseNotFound)

	// The counter was only decremented once.
	asset, err := env.registry.GetAsset(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), asset.ActiveLicenses)
}

func TestRevokeAssetNotFound(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()

	err := env.licenses.RevokeLicense(env.as(owner), &RevokeLicenseRequest{
		Owner:    owner,
		Licensee: uuid.New(),
		AssetID:  999,
	})
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestAssetIDZeroIsValid(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	buyer := uuid.New()

	// Asset IDs are caller-assigned and opaque; zero is as good as any.
	env.registerAsset(t, owner, 0, 500, 100)
	env.fund(t, buyer, "USD", 200)

	_, err := env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
		Licensee:    buyer,
		AssetID:     0,
		LicenseType: models.LicenseTypeNonExclusive,
	})
	require.NoError(t, err)

	err = env.royalty.PayUsageRoyalty(env.as(buyer), &PayRoyaltyRequest{
		Licensee: buyer,
		AssetID:  0,
		Amount:   25,
	})
	require.NoError(t, err)

	err = env.licenses.RevokeLicense(env.as(owner), &RevokeLicenseRequest{
		Owner:    owner,
		Licensee: buyer,
		AssetID:  0,
	})
	require.NoError(t, err)

	asset, err := env.registry.GetAsset(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), asset.ActiveLicenses)
	assert.Equal(t, int64(125), env.balance(t, owner, "USD"))
}

func TestListLicenses(t *testing.T) {
	env := newTestEnv()
	owner := uuid.New()
	first := uuid.New()
	second := uuid.New()

	env.registerAsset(t, owner, 101, 500, 100)
	env.fund(t, first, "USD", 100)
	env.fund(t, second, "USD", 100)

	for _, buyer := range []uuid.UUID{first, second} {
		_, err := env.licenses.PurchaseLicense(env.as(buyer), &PurchaseLicenseRequest{
			Licensee:    buyer,
			AssetID:     101,
			LicenseType: models.LicenseTypeNonExclusive,
		})
		require.NoError(t, err)
	}

	licenses, err := env.licenses.ListLicenses(context.Background(), 101)
	require.NoError(t, err)
	assert.Len(t, licenses, 2)

	_, err = env.licenses.ListLicenses(context.Background(), 999)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}
