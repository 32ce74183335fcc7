package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionModel: satu peminjaman buku oleh satu anggota.
// Tanggal disimpan sebagai DATE (tengah malam UTC di sisi Go).
type TransactionModel struct {
	TransactionID        uuid.UUID  `gorm:"type:uuid;primaryKey;column:transaction_id" json:"transaction_id"`
	TransactionCode      string     `gorm:"size:48;not null;uniqueIndex;column:transaction_code" json:"transaction_code"`
	TransactionBookID    uuid.UUID  `gorm:"type:uuid;not null;index;column:transaction_book_id" json:"transaction_book_id"`
	TransactionUserID    uuid.UUID  `gorm:"type:uuid;not null;index;column:transaction_user_id" json:"transaction_user_id"`
	TransactionStatusID  uuid.UUID  `gorm:"type:uuid;not null;index;column:transaction_status_id" json:"transaction_status_id"`
	TransactionCreatedBy *uuid.UUID `gorm:"type:uuid;column:transaction_created_by" json:"transaction_created_by,omitempty"`

	TransactionBorrowDate *time.Time `gorm:"type:date;column:transaction_borrow_date" json:"transaction_borrow_date,omitempty"`
	TransactionDueDate    *time.Time `gorm:"type:date;index;column:transaction_due_date" json:"transaction_due_date,omitempty"`
	TransactionReturnDate *time.Time `gorm:"type:date;column:transaction_return_date" json:"transaction_return_date,omitempty"`

	TransactionPenaltyTotal int64 `gorm:"not null;default:0;check:chk_transaction_penalty_total,transaction_penalty_total >= 0;column:transaction_penalty_total" json:"transaction_penalty_total"`

	TransactionCreatedAt time.Time      `gorm:"autoCreateTime;column:transaction_created_at" json:"transaction_created_at"`
	TransactionUpdatedAt time.Time      `gorm:"autoUpdateTime;column:transaction_updated_at" json:"transaction_updated_at"`
	TransactionDeletedAt gorm.DeletedAt `gorm:"index;column:transaction_deleted_at" json:"transaction_deleted_at,omitempty"`
}

func (TransactionModel) TableName() string { return "transactions" }

func (m *TransactionModel) BeforeCreate(tx *gorm.DB) error {
	if m.TransactionID == uuid.Nil {
		m.TransactionID = uuid.New()
	}
	return nil
}

// Outstanding: buku masih di tangan anggota.
func (m *TransactionModel) Outstanding() bool {
	return m.TransactionReturnDate == nil
}
