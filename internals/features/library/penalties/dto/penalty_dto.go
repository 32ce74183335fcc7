package dto

import (
	"time"

	"github.com/google/uuid"

	"simpus_backend/internals/features/library/penalties/service"
)

type PenaltyResponse struct {
	PenaltyID       uuid.UUID  `json:"penalty_id"`
	TransactionID   uuid.UUID  `json:"transaction_id"`
	TransactionCode string     `json:"transaction_code,omitempty"`
	BookTitle       string     `json:"book_title,omitempty"`
	MemberID        uuid.UUID  `json:"member_id"`
	MemberName      string     `json:"member_name,omitempty"`
	Amount          int64      `json:"penalty_amount"`
	Reason          string     `json:"penalty_reason"`
	Status          string     `json:"penalty_status"`
	Method          *string    `json:"penalty_method,omitempty"`
	PaidAt          *time.Time `json:"penalty_paid_at,omitempty"`
	CreatedAt       time.Time  `json:"penalty_created_at"`
}

func FromRow(r service.Row) PenaltyResponse {
	return PenaltyResponse{
		PenaltyID:       r.PenaltyID,
		TransactionID:   r.PenaltyTransactionID,
		TransactionCode: r.TransactionCode,
		BookTitle:       r.BookTitle,
		MemberID:        r.PenaltyUserID,
		MemberName:      r.MemberName,
		Amount:          r.PenaltyAmount,
		Reason:          r.PenaltyReason,
		Status:          r.PenaltyStatus,
		Method:          r.PenaltyMethod,
		PaidAt:          r.PenaltyPaidAt,
		CreatedAt:       r.PenaltyCreatedAt,
	}
}
