package events

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LoanEventModel: jejak event (outbox) untuk laporan dan notifikasi anggota.
type LoanEventModel struct {
	LoanEventID            uuid.UUID      `gorm:"type:uuid;primaryKey;column:loan_event_id" json:"loan_event_id"`
	LoanEventType          string         `gorm:"size:40;not null;index;column:loan_event_type" json:"loan_event_type"`
	LoanEventTransactionID uuid.UUID      `gorm:"type:uuid;not null;index;column:loan_event_transaction_id" json:"loan_event_transaction_id"`
	LoanEventMemberID      uuid.UUID      `gorm:"type:uuid;not null;index;column:loan_event_member_id" json:"loan_event_member_id"`
	LoanEventPayload       datatypes.JSON `gorm:"not null;column:loan_event_payload" json:"loan_event_payload"`
	LoanEventCreatedAt     time.Time      `gorm:"autoCreateTime;column:loan_event_created_at" json:"loan_event_created_at"`
}

func (LoanEventModel) TableName() string { return "loan_events" }

// OutboxSink menyimpan event ke tabel loan_events.
type OutboxSink struct {
	DB *gorm.DB
}

func (s OutboxSink) Publish(ctx context.Context, e Event) error {
	payload, err := sonic.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	id := e.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	row := LoanEventModel{
		LoanEventID:            id,
		LoanEventType:          string(e.Type),
		LoanEventTransactionID: e.TransactionID,
		LoanEventMemberID:      e.MemberID,
		LoanEventPayload:       datatypes.JSON(payload),
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}
