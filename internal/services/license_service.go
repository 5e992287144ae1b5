// internal/services/license_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/flavorsnap/ip-backend/internal/models"
	"github.com/flavorsnap/ip-backend/internal/storage"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

// LicenseService is the license ledger: it owns per-(asset, licensee)
// license records and enforces the exclusivity invariants. Purchases pay
// strictly before any state mutation, so a failed payment is
// indistinguishable from an early validation failure.
type LicenseService struct {
	store    storage.Store
	auth     Authorizer
	payments PaymentExecutor
}

type PurchaseLicenseRequest struct {
	Licensee    uuid.UUID          `json:"licensee" validate:"required"`
	AssetID     uint64             `json:"asset_id"`
	LicenseType models.LicenseType `json:"license_type" validate:"required"`
}

type RevokeLicenseRequest struct {
	Owner    uuid.UUID `json:"owner" validate:"required"`
	Licensee uuid.UUID `json:"licensee" validate:"required"`
	AssetID  uint64    `json:"asset_id"`
}

func NewLicenseService(store storage.Store, auth Authorizer, payments PaymentExecutor) *LicenseService {
	return &LicenseService{
		store:    store,
		auth:     auth,
		payments: payments,
	}
}

// PurchaseLicense issues a license to the licensee against payment of the
// asset's listed price. An outstanding exclusive grant blocks any further
// purchase; an exclusive grant cannot be issued while non-exclusive licenses
// are outstanding. The reverse direction is deliberately unguarded: a
// non-exclusive purchase is only ever blocked by an exclusive grant.
func (s *LicenseService) PurchaseLicense(ctx context.Context, req *PurchaseLicenseRequest) (*models.License, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !req.LicenseType.Valid() {
		return nil, fmt.Errorf("invalid license type %q", req.LicenseType)
	}

	if err := s.auth.RequireAuth(ctx, req.Licensee); err != nil {
		return nil, err
	}

	license := &models.License{
		AssetID:     req.AssetID,
		Licensee:    req.Licensee,
		LicenseType: req.LicenseType,
		IsActive:    true,
	}

	err := s.store.Atomically(ctx, func(tx storage.Store) error {
		asset, found, err := tx.Assets().Get(ctx, req.AssetID)
		if err != nil {
			return err
		}
		if !found {
			return ErrAssetNotFound
		}

		if asset.HasExclusive {
			return ErrExclusiveAlreadyIssued
		}
		if req.LicenseType == models.LicenseTypeExclusive && asset.ActiveLicenses > 0 {
			return ErrActiveLicensesExist
		}

		existing, found, err := tx.Licenses().Get(ctx, req.AssetID, req.Licensee)
		if err != nil {
			return err
		}
		if found && existing.IsActive {
			return ErrLicenseAlreadyExists
		}

		price := asset.PriceFor(req.LicenseType)

		// Payment runs after all validation and before any write. A
		// transfer failure aborts the transaction with nothing persisted.
		if err := s.payments.Transfer(ctx, tx, models.TransactionTypeLicensePurchase,
			&req.AssetID, asset.PaymentToken, req.Licensee, asset.Owner, price); err != nil {
			return err
		}

		if req.LicenseType == models.LicenseTypeExclusive {
			asset.HasExclusive = true
		} else {
			asset.ActiveLicenses++
		}
		if err := tx.Assets().Put(ctx, asset); err != nil {
			return err
		}

		// Unconditional upsert: a prior revoked record for the same pair is
		// overwritten entirely, including its license type.
		return tx.Licenses().Put(ctx, license)
	})
	if err != nil {
		return nil, err
	}
	return license, nil
}

// RevokeLicense deactivates a license and rewinds the asset's exclusivity
// tracking. Only the asset owner may revoke; no refund occurs.
func (s *LicenseService) RevokeLicense(ctx context.Context, req *RevokeLicenseRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.auth.RequireAuth(ctx, req.Owner); err != nil {
		return err
	}

	return s.store.Atomically(ctx, func(tx storage.Store) error {
		asset, found, err := tx.Assets().Get(ctx, req.AssetID)
		if err != nil {
			return err
		}
		if !found {
			return ErrAssetNotFound
		}
		if asset.Owner != req.Owner {
			return ErrUnauthorized
		}

		license, found, err := tx.Licenses().Get(ctx, req.AssetID, req.Licensee)
		if err != nil {
			return err
		}
		if !found || !license.IsActive {
			return ErrLicenseNotFound
		}

		license.IsActive = false
		if err := tx.Licenses().Put(ctx, license); err != nil {
			return err
		}

		if license.LicenseType == models.LicenseTypeExclusive {
			asset.HasExclusive = false
		} else {
			// An active non-exclusive license implies a positive counter.
			if asset.ActiveLicenses == 0 {
				return ErrInvariantViolated
			}
			asset.ActiveLicenses--
		}
		return tx.Assets().Put(ctx, asset)
	})
}

// GetLicense returns the license record for the pair, active or not.
func (s *LicenseService) GetLicense(ctx context.Context, assetID uint64, licensee uuid.UUID) (*models.License, error) {
	license, found, err := s.store.Licenses().Get(ctx, assetID, licensee)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrLicenseNotFound
	}
	return license, nil
}

func (s *LicenseService) ListLicenses(ctx context.Context, assetID uint64) ([]models.License, error) {
	_, found, err := s.store.Assets().Get(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrAssetNotFound
	}
	return s.store.Licenses().ListByAsset(ctx, assetID)
}
