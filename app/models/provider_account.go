package models

import (
	"time"

	"gorm.io/gorm"
)

// ProviderAccount links an external OAuth identity to a local user.
type ProviderAccount struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"index" json:"user_id"`
	Provider       string         `gorm:"type:varchar(50);uniqueIndex:idx_provider_user" json:"provider"`
	ProviderUserID string         `gorm:"type:varchar(191);uniqueIndex:idx_provider_user" json:"provider_user_id"`
	AccessToken    string         `gorm:"type:text" json:"-"`
	RefreshToken   string         `gorm:"type:text" json:"-"`
	ExpiresAt      *time.Time     `gorm:"type:timestamp;default:null" json:"expires_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
