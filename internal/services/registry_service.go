// internal/services/registry_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/flavorsnap/ip-backend/internal/models"
	"github.com/flavorsnap/ip-backend/internal/storage"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

// RegistryService owns the catalog of licensable assets and their
// pricing/exclusivity metadata.
type RegistryService struct {
	store storage.Store
	auth  Authorizer
}

type RegisterAssetRequest struct {
	Owner uuid.UUID `json:"owner" validate:"required"`
	// Asset IDs are opaque and caller-assigned; zero is a valid ID.
	AssetID           uint64    `json:"asset_id"`
	MetadataURI       string    `json:"metadata_uri" validate:"required,max=512"`
	PriceExclusive    int64     `json:"price_exclusive" validate:"min=0"`
	PriceNonExclusive int64     `json:"price_non_exclusive" validate:"min=0"`
	PaymentToken      string    `json:"payment_token" validate:"required,max=64"`
	Tags              []string  `json:"tags,omitempty"`
}

func NewRegistryService(store storage.Store, auth Authorizer) *RegistryService {
	return &RegistryService{
		store: store,
		auth:  auth,
	}
}

// RegisterAsset creates a new IP asset record. The gate attests the owner
// principal named in the request; no further ownership cross-check is done.
// No payment occurs.
func (s *RegistryService) RegisterAsset(ctx context.Context, req *RegisterAssetRequest) (*models.IPAsset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.auth.RequireAuth(ctx, req.Owner); err != nil {
		return nil, err
	}

	asset := &models.IPAsset{
		AssetID:           req.AssetID,
		Owner:             req.Owner,
		MetadataURI:       req.MetadataURI,
		PriceExclusive:    req.PriceExclusive,
		PriceNonExclusive: req.PriceNonExclusive,
		PaymentToken:      req.PaymentToken,
		HasExclusive:      false,
		ActiveLicenses:    0,
		Tags:              req.Tags,
	}

	err := s.store.Atomically(ctx, func(tx storage.Store) error {
		exists, err := tx.Assets().Has(ctx, req.AssetID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAssetAlreadyRegistered
		}
		return tx.Assets().Put(ctx, asset)
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *RegistryService) GetAsset(ctx context.Context, assetID uint64) (*models.IPAsset, error) {
	asset, found, err := s.store.Assets().Get(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrAssetNotFound
	}
	return asset, nil
}

func (s *RegistryService) ListAssets(ctx context.Context, params utils.PaginationParams) ([]models.IPAsset, int64, error) {
	return s.store.Assets().List(ctx, params)
}
