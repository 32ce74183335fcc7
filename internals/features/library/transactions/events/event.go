// Package events membawa kejadian domain transaksi (pinjam, kembali, denda) ke sink notifikasi.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	LoanRequested   Type = "loan.requested"
	LoanCreated     Type = "loan.created"
	LoanRejected    Type = "loan.rejected"
	LoanReturned    Type = "loan.returned"
	LoanOverdue     Type = "loan.overdue"
	LoanLost        Type = "loan.lost"
	LoanDamaged     Type = "loan.damaged"
	PenaltyAssessed Type = "penalty.assessed"
)

type Event struct {
	ID            uuid.UUID  `json:"id"`
	Type          Type       `json:"type"`
	TransactionID uuid.UUID  `json:"transaction_id"`
	Code          string     `json:"code"`
	BookID        uuid.UUID  `json:"book_id"`
	MemberID      uuid.UUID  `json:"member_id"`
	StatusCode    string     `json:"status_code"`
	PenaltyTotal  int64      `json:"penalty_total"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// Sink menerima event setelah transaksi DB berhasil commit.
type Sink interface {
	Publish(ctx context.Context, e Event) error
}

type SinkFunc func(ctx context.Context, e Event) error

func (f SinkFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }

// Discard membuang semua event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
