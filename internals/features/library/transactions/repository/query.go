package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"simpus_backend/internals/constants"
	"simpus_backend/internals/features/library/transactions/model"
	"simpus_backend/internals/helpers/dbtime"
)

// ListFilter untuk daftar transaksi (staff maupun anggota).
type ListFilter struct {
	MemberID        *uuid.UUID
	BookID          *uuid.UUID
	StatusCodes     []string
	Code            string
	BorrowFrom      *time.Time
	BorrowTo        *time.Time
	OutstandingOnly bool
	OverdueAsOf     *time.Time
	IncludeDeleted  bool
	Offset          int
	Limit           int
}

// Row adalah transaksi plus label yang di-join untuk tampilan.
type Row struct {
	model.TransactionModel
	StatusCode string `gorm:"column:status_code"`
	StatusName string `gorm:"column:status_name"`
	BookTitle  string `gorm:"column:book_title"`
	MemberName string `gorm:"column:member_name"`
}

func ListTransactions(ctx context.Context, db *gorm.DB, f ListFilter) ([]Row, int64, error) {
	q := db.WithContext(ctx).Model(&model.TransactionModel{})
	if f.IncludeDeleted {
		q = q.Unscoped()
	}
	q = q.Joins("JOIN statuses s ON s.status_id = transactions.transaction_status_id").
		Joins("LEFT JOIN books b ON b.book_id = transactions.transaction_book_id").
		Joins("LEFT JOIN users u ON u.id = transactions.transaction_user_id")

	if f.MemberID != nil {
		q = q.Where("transactions.transaction_user_id = ?", *f.MemberID)
	}
	if f.BookID != nil {
		q = q.Where("transactions.transaction_book_id = ?", *f.BookID)
	}
	if len(f.StatusCodes) > 0 {
		q = q.Where("s.status_code IN ?", f.StatusCodes)
	}
	if code := strings.TrimSpace(f.Code); code != "" {
		q = q.Where("UPPER(transactions.transaction_code) LIKE ?", "%"+strings.ToUpper(code)+"%")
	}
	if f.BorrowFrom != nil {
		q = q.Where("transactions.transaction_borrow_date >= ?", f.BorrowFrom.Format(dbtime.DateLayout))
	}
	if f.BorrowTo != nil {
		// batas atas eksklusif hari berikutnya supaya tanggal yang sama ikut
		q = q.Where("transactions.transaction_borrow_date < ?", dbtime.AddDays(*f.BorrowTo, 1).Format(dbtime.DateLayout))
	}
	if f.OutstandingOnly {
		q = q.Where("transactions.transaction_return_date IS NULL").
			Where("s.status_code IN ?", constants.OutstandingStatusCodes)
	}
	if f.OverdueAsOf != nil {
		q = q.Where("transactions.transaction_return_date IS NULL").
			Where("transactions.transaction_due_date IS NOT NULL").
			Where("transactions.transaction_due_date < ?", f.OverdueAsOf.Format(dbtime.DateLayout)).
			Where("s.status_code NOT IN ?", constants.ClosedStatusCodes)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	var rows []Row
	q = q.Select(`transactions.*, s.status_code, s.status_name,
		b.book_title AS book_title, u.full_name AS member_name`).
		Order("transactions.transaction_created_at DESC, transactions.transaction_code DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return rows, total, nil
}

func GetTransactionRow(ctx context.Context, db *gorm.DB, id uuid.UUID, includeDeleted bool) (*Row, error) {
	q := db.WithContext(ctx).Model(&model.TransactionModel{})
	if includeDeleted {
		q = q.Unscoped()
	}
	var row Row
	err := q.Select(`transactions.*, s.status_code, s.status_name,
			b.book_title AS book_title, u.full_name AS member_name`).
		Joins("JOIN statuses s ON s.status_id = transactions.transaction_status_id").
		Joins("LEFT JOIN books b ON b.book_id = transactions.transaction_book_id").
		Joins("LEFT JOIN users u ON u.id = transactions.transaction_user_id").
		Where("transactions.transaction_id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, wrapNotFound(err, "transaction")
	}
	return &row, nil
}

// SoftDeleteTransaction menandai transaksi terhapus. Pinjaman yang bukunya
// masih di tangan anggota ditolak dengan ErrStillOutstanding.
func SoftDeleteTransaction(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := GetTransactionRow(ctx, tx, id, false)
		if err != nil {
			return err
		}
		if row.TransactionReturnDate == nil && isOutstandingCode(row.StatusCode) {
			return ErrStillOutstanding
		}
		res := tx.Where("transaction_id = ?", id).Delete(&model.TransactionModel{})
		if res.Error != nil {
			return fmt.Errorf("delete transaction: %w", res.Error)
		}
		return nil
	})
}

func RestoreTransaction(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	res := db.WithContext(ctx).Unscoped().
		Model(&model.TransactionModel{}).
		Where("transaction_id = ? AND transaction_deleted_at IS NOT NULL", id).
		Update("transaction_deleted_at", nil)
	if res.Error != nil {
		return fmt.Errorf("restore transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("transaction: %w", ErrNotFound)
	}
	return nil
}

func isOutstandingCode(code string) bool {
	for _, c := range constants.OutstandingStatusCodes {
		if c == code {
			return true
		}
	}
	return false
}
