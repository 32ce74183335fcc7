package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusModel: kosakata status transaksi beserta nominal denda (rupiah).
// Kode dipakai mesin; nama untuk tampilan.
type StatusModel struct {
	StatusID            uuid.UUID `gorm:"type:uuid;primaryKey;column:status_id" json:"status_id"`
	StatusCode          string    `gorm:"size:32;not null;uniqueIndex;column:status_code" json:"status_code"`
	StatusName          string    `gorm:"size:80;not null;uniqueIndex;column:status_name" json:"status_name"`
	StatusPenaltyAmount int64     `gorm:"not null;default:0;check:chk_status_penalty_amount,status_penalty_amount >= 0;column:status_penalty_amount" json:"status_penalty_amount"`

	StatusCreatedAt time.Time `gorm:"autoCreateTime;column:status_created_at" json:"status_created_at"`
	StatusUpdatedAt time.Time `gorm:"autoUpdateTime;column:status_updated_at" json:"status_updated_at"`
}

func (StatusModel) TableName() string { return "statuses" }

func (m *StatusModel) BeforeCreate(tx *gorm.DB) error {
	if m.StatusID == uuid.Nil {
		m.StatusID = uuid.New()
	}
	return nil
}
