package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	bookModel "simpus_backend/internals/features/library/books/model"
	penaltyModel "simpus_backend/internals/features/library/penalties/model"
	statusModel "simpus_backend/internals/features/library/statuses/model"
	"simpus_backend/internals/features/library/transactions/model"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateCode    = errors.New("transaction code already used")
	// ErrStillOutstanding: buku masih dipinjam, transaksi tidak boleh dihapus.
	ErrStillOutstanding = errors.New("transaction still outstanding")
)

// Member adalah potongan users + user_details yang dibutuhkan engine.
type Member struct {
	ID               uuid.UUID
	Role             string
	IsActive         bool
	HasDetail        bool
	MembershipStatus string
}

// Transition adalah perubahan state yang ditulis dengan conditional update.
// Field nil tidak disentuh.
type Transition struct {
	StatusID     uuid.UUID
	BorrowDate   *time.Time
	DueDate      *time.Time
	ReturnDate   *time.Time
	PenaltyTotal *int64
	// RequireOutstanding menambah syarat return_date IS NULL.
	RequireOutstanding bool
}

// OverdueQuery: return_date IS NULL AND due_date IS NOT NULL AND due_date < AsOf
// AND status bukan salah satu ExcludeStatusIDs.
type OverdueQuery struct {
	AsOf             time.Time
	ExcludeStatusIDs []uuid.UUID
	OnlyStatusIDs    []uuid.UUID
}

// Store adalah batas persistensi engine transaksi. Semua operasi tulis dalam satu
// panggilan engine dijalankan lewat WithTx sehingga atomik.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Store) error) error

	FindBook(ctx context.Context, id uuid.UUID) (*bookModel.BookModel, error)
	FindMember(ctx context.Context, id uuid.UUID) (*Member, error)
	ListStatuses(ctx context.Context) ([]statusModel.StatusModel, error)
	LoanPeriodDays(ctx context.Context) (int, bool, error)

	CodeExists(ctx context.Context, code string) (bool, error)
	InsertTransaction(ctx context.Context, m *model.TransactionModel) error
	FindTransaction(ctx context.Context, id uuid.UUID, forUpdate bool) (*model.TransactionModel, error)
	Transition(ctx context.Context, id uuid.UUID, fromStatusIDs []uuid.UUID, t Transition) (bool, error)

	TakeCopy(ctx context.Context, bookID uuid.UUID) (bool, error)
	ReturnCopy(ctx context.Context, bookID uuid.UUID) error

	InsertPenalty(ctx context.Context, p *penaltyModel.PenaltyModel) error
	ListOverdue(ctx context.Context, q OverdueQuery) ([]model.TransactionModel, error)
}
