// internal/models/transaction.go
package models

import (
	"github.com/google/uuid"
)

// TokenBalance holds one principal's balance in one payment token,
// in minor units.
type TokenBalance struct {
	PrincipalID uuid.UUID `json:"principal_id" gorm:"primaryKey;type:uuid"`
	Token       string    `json:"token" gorm:"primaryKey;size:64"`
	Amount      int64     `json:"amount" gorm:"not null;default:0"`
}

// Transaction is the audit record of a completed value movement. It is
// written in the same atomic step as the transfer itself. FromID is nil for
// deposits, which mint balance from an external funding source.
type Transaction struct {
	BaseModel
	TransactionType  TransactionType `json:"transaction_type" gorm:"type:varchar(20);not null;index"`
	AssetID          *uint64         `json:"asset_id,omitempty" gorm:"index"`
	FromID           *uuid.UUID      `json:"from_id,omitempty" gorm:"type:uuid;index"`
	ToID             uuid.UUID       `json:"to_id" gorm:"type:uuid;not null;index"`
	Token            string          `json:"token" gorm:"size:64;not null"`
	Amount           int64           `json:"amount" gorm:"not null"`
	PaymentReference string          `json:"payment_reference,omitempty" gorm:"size:255"`
}
