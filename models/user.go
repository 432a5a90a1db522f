package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a dashboard account (tenant operator or platform admin)
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Auth0ID      string `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Nom          string `gorm:"not null" json:"nom"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Role         string `gorm:"not null;default:'entreprise'" json:"role"` // "entreprise" or "admin"
	EntrepriseID *uint  `gorm:"index" json:"entreprise_id"`                // nil for platform admins

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
