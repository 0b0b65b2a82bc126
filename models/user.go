package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account owned by the credential service. Accounts are never
// hard-deleted.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Role         Role       `json:"role" gorm:"not null;default:'user';index"`
	Gender       *Gender    `json:"gender"`
	City         *City      `json:"city"`
	State        State      `json:"state" gorm:"not null"`
	Country      Country    `json:"country" gorm:"not null"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:true"`
	IsVerified   bool       `json:"is_verified" gorm:"not null;default:false"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
