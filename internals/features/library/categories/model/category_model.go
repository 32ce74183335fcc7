package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryModel struct {
	CategoryID   uuid.UUID `gorm:"type:uuid;primaryKey;column:category_id" json:"category_id"`
	CategoryName string    `gorm:"size:120;not null;column:category_name" json:"category_name"`
	CategorySlug string    `gorm:"size:140;not null;uniqueIndex;column:category_slug" json:"category_slug"`

	CategoryCreatedAt time.Time      `gorm:"autoCreateTime;column:category_created_at" json:"category_created_at"`
	CategoryUpdatedAt time.Time      `gorm:"autoUpdateTime;column:category_updated_at" json:"category_updated_at"`
	CategoryDeletedAt gorm.DeletedAt `gorm:"index;column:category_deleted_at" json:"category_deleted_at,omitempty"`
}

func (CategoryModel) TableName() string { return "categories" }

func (m *CategoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.CategoryID == uuid.Nil {
		m.CategoryID = uuid.New()
	}
	return nil
}
