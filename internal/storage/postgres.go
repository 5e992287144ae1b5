// internal/storage/postgres.go
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flavorsnap/ip-backend/internal/models"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

type postgresStore struct {
	db *gorm.DB
}

// NewPostgresStore wraps a GORM connection as a Store. Atomically maps to a
// database transaction, so a failed callback rolls back every write.
func NewPostgresStore(db *gorm.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Assets() AssetStore             { return (*pgAssets)(s) }
func (s *postgresStore) Licenses() LicenseStore         { return (*pgLicenses)(s) }
func (s *postgresStore) Balances() BalanceStore         { return (*pgBalances)(s) }
func (s *postgresStore) Transactions() TransactionStore { return (*pgTransactions)(s) }
func (s *postgresStore) Principals() PrincipalStore     { return (*pgPrincipals)(s) }

func (s *postgresStore) Atomically(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&postgresStore{db: tx})
	})
}

type pgAssets postgresStore

func (s *pgAssets) Has(ctx context.Context, assetID uint64) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.IPAsset{}).
		Where("asset_id = ?", assetID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check asset existence: %w", err)
	}
	return count > 0, nil
}

func (s *pgAssets) Get(ctx context.Context, assetID uint64) (*models.IPAsset, bool, error) {
	var asset models.IPAsset
	if err := s.db.WithContext(ctx).Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to fetch asset: %w", err)
	}
	return &asset, true, nil
}

func (s *pgAssets) Put(ctx context.Context, asset *models.IPAsset) error {
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(asset).Error; err != nil {
		return fmt.Errorf("failed to store asset: %w", err)
	}
	return nil
}

func (s *pgAssets) List(ctx context.Context, params utils.PaginationParams) ([]models.IPAsset, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.IPAsset{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}

	allowedSortFields := []string{"created_at", "asset_id", "price_exclusive", "price_non_exclusive"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var assets []models.IPAsset
	if err := query.Find(&assets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch assets: %w", err)
	}
	return assets, total, nil
}

type pgLicenses postgresStore

func (s *pgLicenses) Get(ctx context.Context, assetID uint64, licensee uuid.UUID) (*models.License, bool, error) {
	var license models.License
	if err := s.db.WithContext(ctx).
		Where("asset_id = ? AND licensee = ?", assetID, licensee).
		First(&license).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to fetch license: %w", err)
	}
	return &license, true, nil
}

func (s *pgLicenses) Put(ctx context.Context, license *models.License) error {
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(license).Error; err != nil {
		return fmt.Errorf("failed to store license: %w", err)
	}
	return nil
}

func (s *pgLicenses) ListByAsset(ctx context.Context, assetID uint64) ([]models.License, error) {
	var licenses []models.License
	if err := s.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at DESC").
		Find(&licenses).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch licenses: %w", err)
	}
	return licenses, nil
}

type pgBalances postgresStore

func (s *pgBalances) Get(ctx context.Context, principal uuid.UUID, token string) (int64, error) {
	var balance models.TokenBalance
	if err := s.db.WithContext(ctx).
		Where("principal_id = ? AND token = ?", principal, token).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to fetch balance: %w", err)
	}
	return balance.Amount, nil
}

func (s *pgBalances) Set(ctx context.Context, principal uuid.UUID, token string, amount int64) error {
	record := models.TokenBalance{PrincipalID: principal, Token: token, Amount: amount}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&record).Error; err != nil {
		return fmt.Errorf("failed to store balance: %w", err)
	}
	return nil
}

func (s *pgBalances) ListByPrincipal(ctx context.Context, principal uuid.UUID) ([]models.TokenBalance, error) {
	var balances []models.TokenBalance
	if err := s.db.WithContext(ctx).
		Where("principal_id = ?", principal).
		Order("token ASC").
		Find(&balances).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch balances: %w", err)
	}
	return balances, nil
}

type pgTransactions postgresStore

func (s *pgTransactions) Append(ctx context.Context, txn *models.Transaction) error {
	if err := s.db.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

func (s *pgTransactions) HasReference(ctx context.Context, reference string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("payment_reference = ?", reference).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check payment reference: %w", err)
	}
	return count > 0, nil
}

func (s *pgTransactions) ListByPrincipal(ctx context.Context, principal uuid.UUID, params utils.PaginationParams) ([]models.Transaction, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("from_id = ? OR to_id = ?", principal, principal)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	allowedSortFields := []string{"created_at", "amount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return transactions, total, nil
}

type pgPrincipals postgresStore

func (s *pgPrincipals) GetByID(ctx context.Context, id uuid.UUID) (*models.Principal, bool, error) {
	return s.getBy(ctx, "id = ?", id)
}

func (s *pgPrincipals) GetByEmail(ctx context.Context, email string) (*models.Principal, bool, error) {
	return s.getBy(ctx, "email = ?", email)
}

func (s *pgPrincipals) GetByUsername(ctx context.Context, username string) (*models.Principal, bool, error) {
	return s.getBy(ctx, "username = ?", username)
}

func (s *pgPrincipals) getBy(ctx context.Context, cond string, arg interface{}) (*models.Principal, bool, error) {
	var principal models.Principal
	if err := s.db.WithContext(ctx).Where(cond, arg).First(&principal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to fetch principal: %w", err)
	}
	return &principal, true, nil
}

func (s *pgPrincipals) Put(ctx context.Context, principal *models.Principal) error {
	if err := s.db.WithContext(ctx).Save(principal).Error; err != nil {
		return fmt.Errorf("failed to store principal: %w", err)
	}
	return nil
}
