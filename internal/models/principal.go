// internal/models/principal.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Principal is an authenticatable identity: an asset owner or a licensee.
type Principal struct {
	BaseModel
	Username     string          `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string          `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string          `json:"-" gorm:"size:255;not null"`
	Status       PrincipalStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	LastLoginAt  *time.Time      `json:"last_login_at"`
}

func (p *Principal) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hashedPassword)
	return nil
}

func (p *Principal) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password))
}
