// internal/models/license.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// License is the one record per (asset, licensee) pair. A revoked license is
// kept with IsActive=false; a later re-purchase overwrites the whole row.
type License struct {
	AssetID     uint64      `json:"asset_id" gorm:"primaryKey;autoIncrement:false"`
	Licensee    uuid.UUID   `json:"licensee" gorm:"primaryKey;type:uuid"`
	LicenseType LicenseType `json:"license_type" gorm:"type:varchar(20);not null"`
	IsActive    bool        `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
