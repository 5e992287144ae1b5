// internal/services/royalty_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/flavorsnap/ip-backend/internal/models"
	"github.com/flavorsnap/ip-backend/internal/storage"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

// RoyaltyService re-validates an existing license and drives a usage payment
// to the asset owner. It owns no records of its own.
type RoyaltyService struct {
	store    storage.Store
	auth     Authorizer
	payments PaymentExecutor
}

type PayRoyaltyRequest struct {
	Licensee uuid.UUID `json:"licensee" validate:"required"`
	AssetID  uint64    `json:"asset_id"`
	Amount   int64     `json:"amount" validate:"min=0"`
}

func NewRoyaltyService(store storage.Store, auth Authorizer, payments PaymentExecutor) *RoyaltyService {
	return &RoyaltyService{
		store:    store,
		auth:     auth,
		payments: payments,
	}
}

// PayUsageRoyalty transfers a caller-chosen amount from the licensee to the
// asset owner. The amount is an open-ended metering hook: it is not checked
// against any price schedule, only the license's activity is. A revoked
// license is indistinguishable from a missing one.
func (s *RoyaltyService) PayUsageRoyalty(ctx context.Context, req *PayRoyaltyRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.auth.RequireAuth(ctx, req.Licensee); err != nil {
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

		license, found, err := tx.Licenses().Get(ctx, req.AssetID, req.Licensee)
		if err != nil {
			return err
		}
		if !found || !license.IsActive {
			return ErrLicenseNotFound
		}

		return s.payments.Transfer(ctx, tx, models.TransactionTypeRoyalty,
			&req.AssetID, asset.PaymentToken, req.Licensee, asset.Owner, req.Amount)
	})
}
