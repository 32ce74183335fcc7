package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PenaltyModel: tagihan denda satu transaksi (dibuat saat transaksi selesai dengan denda > 0).
type PenaltyModel struct {
	PenaltyID            uuid.UUID  `gorm:"type:uuid;primaryKey;column:penalty_id" json:"penalty_id"`
	PenaltyTransactionID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex;column:penalty_transaction_id" json:"penalty_transaction_id"`
	PenaltyUserID        uuid.UUID  `gorm:"type:uuid;not null;index;column:penalty_user_id" json:"penalty_user_id"`
	PenaltyAmount        int64      `gorm:"not null;column:penalty_amount" json:"penalty_amount"`
	PenaltyReason        string     `gorm:"size:32;not null;column:penalty_reason" json:"penalty_reason"`
	PenaltyStatus        string     `gorm:"type:varchar(10);not null;default:'unpaid';index;column:penalty_status" json:"penalty_status"`
	PenaltyMethod        *string    `gorm:"type:varchar(16);column:penalty_method" json:"penalty_method,omitempty"`
	PenaltyOrderID       *string    `gorm:"size:64;uniqueIndex;column:penalty_order_id" json:"penalty_order_id,omitempty"`
	PenaltyPaidAt        *time.Time `gorm:"column:penalty_paid_at" json:"penalty_paid_at,omitempty"`
	PenaltySettledBy     *uuid.UUID `gorm:"type:uuid;column:penalty_settled_by" json:"penalty_settled_by,omitempty"`

	PenaltyCreatedAt time.Time `gorm:"autoCreateTime;column:penalty_created_at" json:"penalty_created_at"`
	PenaltyUpdatedAt time.Time `gorm:"autoUpdateTime;column:penalty_updated_at" json:"penalty_updated_at"`
}

func (PenaltyModel) TableName() string { return "penalties" }

func (m *PenaltyModel) BeforeCreate(tx *gorm.DB) error {
	if m.PenaltyID == uuid.Nil {
		m.PenaltyID = uuid.New()
	}
	return nil
}
