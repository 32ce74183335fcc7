package model

import (
	"time"

	"gorm.io/gorm"
)

// TokenBlacklistModel: access token yang sudah logout, ditolak sampai kadaluarsa.
type TokenBlacklistModel struct {
	ID        uint           `gorm:"primaryKey;column:token_blacklist_id" json:"token_blacklist_id"`
	Token     string         `gorm:"type:text;not null;uniqueIndex;column:token_blacklist_token" json:"-"`
	UserID    *string        `gorm:"size:36;index;column:token_blacklist_user_id" json:"token_blacklist_user_id,omitempty"`
	ExpiredAt time.Time      `gorm:"not null;index;column:token_blacklist_expired_at" json:"token_blacklist_expired_at"`
	CreatedAt time.Time      `gorm:"autoCreateTime;column:token_blacklist_created_at" json:"token_blacklist_created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index;column:token_blacklist_deleted_at" json:"token_blacklist_deleted_at,omitempty"`
}

func (TokenBlacklistModel) TableName() string {
	return "token_blacklist"
}
