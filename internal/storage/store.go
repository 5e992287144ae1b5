// internal/storage/store.go
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/flavorsnap/ip-backend/internal/models"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

// AssetStore is the durable map of asset ID to IPAsset record.
type AssetStore interface {
	Has(ctx context.Context, assetID uint64) (bool, error)
	Get(ctx context.Context, assetID uint64) (*models.IPAsset, bool, error)
	Put(ctx context.Context, asset *models.IPAsset) error
	List(ctx context.Context, params utils.PaginationParams) ([]models.IPAsset, int64, error)
}

// LicenseStore is the durable map keyed by the (asset ID, licensee) pair.
// Put has upsert semantics: re-purchase after revocation overwrites the
// whole prior record.
type LicenseStore interface {
	Get(ctx context.Context, assetID uint64, licensee uuid.UUID) (*models.License, bool, error)
	Put(ctx context.Context, license *models.License) error
	ListByAsset(ctx context.Context, assetID uint64) ([]models.License, error)
}

// BalanceStore holds per-(principal, token) balances as point reads/writes.
// Balance checks belong to the payment executor, not here.
type BalanceStore interface {
	Get(ctx context.Context, principal uuid.UUID, token string) (int64, error)
	Set(ctx context.Context, principal uuid.UUID, token string, amount int64) error
	ListByPrincipal(ctx context.Context, principal uuid.UUID) ([]models.TokenBalance, error)
}

// TransactionStore is the append-only record of completed value movements.
// HasReference answers whether an external payment reference was already
// recorded, which is what keeps deposit confirmation idempotent.
type TransactionStore interface {
	Append(ctx context.Context, txn *models.Transaction) error
	HasReference(ctx context.Context, reference string) (bool, error)
	ListByPrincipal(ctx context.Context, principal uuid.UUID, params utils.PaginationParams) ([]models.Transaction, int64, error)
}

// PrincipalStore holds the authenticatable identities.
type PrincipalStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Principal, bool, error)
	GetByEmail(ctx context.Context, email string) (*models.Principal, bool, error)
	GetByUsername(ctx context.Context, username string) (*models.Principal, bool, error)
	Put(ctx context.Context, principal *models.Principal) error
}

// Store bundles the typed stores behind one transaction boundary. Every
// public operation runs inside a single Atomically call: the callback either
// commits as a whole or leaves all persisted state unchanged. Calling
// Atomically on the store passed to the callback joins the open transaction.
type Store interface {
	Assets() AssetStore
	Licenses() LicenseStore
	Balances() BalanceStore
	Transactions() TransactionStore
	Principals() PrincipalStore
	Atomically(ctx context.Context, fn func(Store) error) error
}
