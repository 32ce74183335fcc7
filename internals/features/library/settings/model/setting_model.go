package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettingModel: satu baris profil perpustakaan + lama pinjam default.
type SettingModel struct {
	SettingID          uuid.UUID `gorm:"type:uuid;primaryKey;column:setting_id" json:"setting_id"`
	SettingLibraryName string    `gorm:"size:160;not null;column:setting_library_name" json:"setting_library_name"`
	SettingAddress     *string   `gorm:"type:text;column:setting_address" json:"setting_address,omitempty"`
	SettingPhone       *string   `gorm:"size:20;column:setting_phone" json:"setting_phone,omitempty"`
	SettingLimitDay    int       `gorm:"not null;default:7;column:setting_limit_day" json:"setting_limit_day"`

	SettingCreatedAt time.Time `gorm:"autoCreateTime;column:setting_created_at" json:"setting_created_at"`
	SettingUpdatedAt time.Time `gorm:"autoUpdateTime;column:setting_updated_at" json:"setting_updated_at"`
}

func (SettingModel) TableName() string { return "settings" }

func (m *SettingModel) BeforeCreate(tx *gorm.DB) error {
	if m.SettingID == uuid.Nil {
		m.SettingID = uuid.New()
	}
	return nil
}
