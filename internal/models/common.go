// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enums
type LicenseType string

const (
	LicenseTypeExclusive    LicenseType = "exclusive"
	LicenseTypeNonExclusive LicenseType = "non_exclusive"
)

func (t LicenseType) Valid() bool {
	return t == LicenseTypeExclusive || t == LicenseTypeNonExclusive
}

type TransactionType string

const (
	TransactionTypeLicensePurchase TransactionType = "license_purchase"
	TransactionTypeRoyalty         TransactionType = "royalty"
	TransactionTypeDeposit         TransactionType = "deposit"
)

type PrincipalStatus string

const (
	PrincipalStatusActive    PrincipalStatus = "active"
	PrincipalStatusSuspended PrincipalStatus = "suspended"
)
