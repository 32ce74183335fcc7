package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"simpus_backend/internals/features/library/transactions/model"
	"simpus_backend/internals/helpers/dbtime"
)

/* =========================
   Requests
========================= */

type CreateLoanRequest struct {
	BookID         string `json:"book_id" validate:"required,uuid"`
	MemberID       string `json:"member_id" validate:"required,uuid"`
	BorrowDate     string `json:"borrow_date" validate:"omitempty"`
	LoanPeriodDays int    `json:"loan_period_days" validate:"omitempty,gte=1,lte=365"`
}

func (r *CreateLoanRequest) Normalize() {
	r.BookID = strings.TrimSpace(r.BookID)
	r.MemberID = strings.TrimSpace(r.MemberID)
	r.BorrowDate = strings.TrimSpace(r.BorrowDate)
}

type RequestLoanRequest struct {
	BookID string `json:"book_id" validate:"required,uuid"`
}

type ReturnRequest struct {
	ReturnDate string `json:"return_date"`
}

type ApproveRequest struct {
	BorrowDate string `json:"borrow_date"`
}

type DamageRequest struct {
	Severity string `json:"severity" validate:"required,oneof=minor severe"`
}

type BulkReturnRequest struct {
	IDs        []string `json:"ids" validate:"required,min=1,max=200,dive,uuid"`
	ReturnDate string   `json:"return_date"`
}

// ParseIDs mengembalikan id unik sesuai urutan kiriman.
func (r BulkReturnRequest) ParseIDs() ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(r.IDs))
	for _, raw := range r.IDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// ParseOptionalDate: kosong → zero time (service memakai hari ini).
func ParseOptionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return dbtime.ParseDate(s)
}

/* =========================
   Response
========================= */

type TransactionResponse struct {
	TransactionID   uuid.UUID `json:"transaction_id"`
	TransactionCode string    `json:"transaction_code"`
	BookID          uuid.UUID `json:"book_id"`
	BookTitle       string    `json:"book_title,omitempty"`
	MemberID        uuid.UUID `json:"member_id"`
	MemberName      string    `json:"member_name,omitempty"`
	StatusID        uuid.UUID `json:"status_id"`
	StatusCode      string    `json:"status_code,omitempty"`
	StatusName      string    `json:"status_name,omitempty"`

	BorrowDate *string `json:"borrow_date"`
	DueDate    *string `json:"due_date"`
	ReturnDate *string `json:"return_date"`

	PenaltyTotal int64      `json:"penalty_total"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

func FromModel(m model.TransactionModel) TransactionResponse {
	r := TransactionResponse{
		TransactionID:   m.TransactionID,
		TransactionCode: m.TransactionCode,
		BookID:          m.TransactionBookID,
		MemberID:        m.TransactionUserID,
		StatusID:        m.TransactionStatusID,
		BorrowDate:      dbtime.Format(m.TransactionBorrowDate),
		DueDate:         dbtime.Format(m.TransactionDueDate),
		ReturnDate:      dbtime.Format(m.TransactionReturnDate),
		PenaltyTotal:    m.TransactionPenaltyTotal,
		CreatedBy:       m.TransactionCreatedBy,
		CreatedAt:       m.TransactionCreatedAt,
		UpdatedAt:       m.TransactionUpdatedAt,
	}
	if m.TransactionDeletedAt.Valid {
		t := m.TransactionDeletedAt.Time
		r.DeletedAt = &t
	}
	return r
}
