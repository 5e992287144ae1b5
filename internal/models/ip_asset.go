// internal/models/ip_asset.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// IPAsset is one registered licensable asset. The asset ID is opaque and
// caller-assigned; it is never generated server-side.
type IPAsset struct {
	AssetID           uint64         `json:"asset_id" gorm:"primaryKey;autoIncrement:false"`
	Owner             uuid.UUID      `json:"owner" gorm:"type:uuid;not null;index"`
	MetadataURI       string         `json:"metadata_uri" gorm:"size:512;not null"`
	PriceExclusive    int64          `json:"price_exclusive" gorm:"not null"`
	PriceNonExclusive int64          `json:"price_non_exclusive" gorm:"not null"`
	PaymentToken      string         `json:"payment_token" gorm:"size:64;not null"`
	HasExclusive      bool           `json:"has_exclusive" gorm:"not null;default:false"`
	ActiveLicenses    uint32         `json:"active_licenses" gorm:"not null;default:0"`
	Tags              pq.StringArray `json:"tags,omitempty" gorm:"type:text[]"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// PriceFor returns the purchase price for the requested license type.
func (a *IPAsset) PriceFor(t LicenseType) int64 {
	if t == LicenseTypeExclusive {
		return a.PriceExclusive
	}
	return a.PriceNonExclusive
}
