package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentPending  = "pending"
	PaymentSettled  = "settled"
	PaymentDuplicate = "duplicate"
)

// PenaltyPaymentModel: satu percobaan bayar online. Anggota bisa membuka Snap berkali-kali,
// tiap sesi punya order id sendiri sehingga webhook sesi lama tetap bisa dicocokkan.
type PenaltyPaymentModel struct {
	PaymentID        uuid.UUID `gorm:"type:uuid;primaryKey;column:payment_id" json:"payment_id"`
	PaymentPenaltyID uuid.UUID `gorm:"type:uuid;not null;index;column:payment_penalty_id" json:"payment_penalty_id"`
	PaymentOrderID   string    `gorm:"size:64;not null;uniqueIndex;column:payment_order_id" json:"payment_order_id"`
	PaymentAmount    int64     `gorm:"not null;column:payment_amount" json:"payment_amount"`
	PaymentStatus    string    `gorm:"type:varchar(10);not null;default:'pending';column:payment_status" json:"payment_status"`
	PaymentSnapToken string    `gorm:"size:255;column:payment_snap_token" json:"payment_snap_token,omitempty"`

	PaymentCreatedAt time.Time `gorm:"autoCreateTime;column:payment_created_at" json:"payment_created_at"`
	PaymentUpdatedAt time.Time `gorm:"autoUpdateTime;column:payment_updated_at" json:"payment_updated_at"`
}

func (PenaltyPaymentModel) TableName() string { return "penalty_payments" }

func (m *PenaltyPaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	return nil
}
