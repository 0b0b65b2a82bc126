package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds the public details of a user. Role is a projection of the
// owning user's role taken at creation time; User remains the source of truth.
type Profile struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	FullName    string    `json:"full_name" gorm:"not null"`
	Phone       *string   `json:"phone"`
	Bio         *string   `json:"bio"`
	AvatarURL   *string   `json:"avatar_url"`
	DateOfBirth *Date     `json:"date_of_birth" gorm:"type:date"`
	Gender      *Gender   `json:"gender" gorm:"index"`
	City        *City     `json:"city" gorm:"index"`
	State       *State    `json:"state"`
	Country     *Country  `json:"country"`
	Role        Role      `json:"role" gorm:"not null;default:'user';index"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
