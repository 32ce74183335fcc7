package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookModel "simpus_backend/internals/features/library/books/model"
	penaltyModel "simpus_backend/internals/features/library/penalties/model"
	settingModel "simpus_backend/internals/features/library/settings/model"
	statusModel "simpus_backend/internals/features/library/statuses/model"
	"simpus_backend/internals/features/library/transactions/model"
	"simpus_backend/internals/helpers/dbtime"
)

// GormStore adalah Store di atas gorm (PostgreSQL di produksi, SQLite di test).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) FindBook(ctx context.Context, id uuid.UUID) (*bookModel.BookModel, error) {
	var b bookModel.BookModel
	if err := s.db.WithContext(ctx).Where("book_id = ?", id).First(&b).Error; err != nil {
		return nil, wrapNotFound(err, "book")
	}
	return &b, nil
}

type memberRow struct {
	ID         uuid.UUID
	Role       string
	IsActive   bool
	DetailID   *uuid.UUID
	Membership *string
}

func (s *GormStore) FindMember(ctx context.Context, id uuid.UUID) (*Member, error) {
	var row memberRow
	err := s.db.WithContext(ctx).
		Table("users AS u").
		Select(`u.id AS id, u.role AS role, u.is_active AS is_active,
			d.user_detail_id AS detail_id, d.user_detail_membership_status AS membership`).
		Joins("LEFT JOIN user_details AS d ON d.user_detail_user_id = u.id").
		Where("u.id = ? AND u.deleted_at IS NULL", id).
		Take(&row).Error
	if err != nil {
		return nil, wrapNotFound(err, "member")
	}

	m := &Member{ID: row.ID, Role: row.Role, IsActive: row.IsActive}
	if row.DetailID != nil && row.Membership != nil {
		m.HasDetail = true
		m.MembershipStatus = *row.Membership
	}
	return m, nil
}

func (s *GormStore) ListStatuses(ctx context.Context) ([]statusModel.StatusModel, error) {
	var rows []statusModel.StatusModel
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	return rows, nil
}

// LoanPeriodDays membaca settings.setting_limit_day; ok=false kalau belum ada baris setting.
func (s *GormStore) LoanPeriodDays(ctx context.Context) (int, bool, error) {
	var st settingModel.SettingModel
	err := s.db.WithContext(ctx).Order("setting_created_at ASC").Take(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load settings: %w", err)
	}
	if st.SettingLimitDay <= 0 {
		return 0, false, nil
	}
	return st.SettingLimitDay, true, nil
}

// CodeExists ikut menghitung baris soft-deleted karena unique index tetap berlaku.
func (s *GormStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Unscoped().
		Model(&model.TransactionModel{}).
		Where("transaction_code = ?", code).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check code: %w", err)
	}
	return n > 0, nil
}

// InsertTransaction berjalan di savepoint supaya bentrok kode tidak membatalkan transaksi luar.
func (s *GormStore) InsertTransaction(ctx context.Context, m *model.TransactionModel) error {
	err := s.db.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return sp.Create(m).Error
	})
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	return fmt.Errorf("insert transaction: %w", err)
}

func (s *GormStore) FindTransaction(ctx context.Context, id uuid.UUID, forUpdate bool) (*model.TransactionModel, error) {
	q := s.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m model.TransactionModel
	if err := q.Where("transaction_id = ?", id).First(&m).Error; err != nil {
		return nil, wrapNotFound(err, "transaction")
	}
	return &m, nil
}

// Transition menulis perubahan hanya jika status saat ini salah satu fromStatusIDs.
// Hasil false berarti baris sudah berpindah state (atau tidak ada).
func (s *GormStore) Transition(ctx context.Context, id uuid.UUID, fromStatusIDs []uuid.UUID, t Transition) (bool, error) {
	if len(fromStatusIDs) == 0 {
		return false, nil
	}
	updates := map[string]any{
		"transaction_status_id": t.StatusID,
	}
	if t.BorrowDate != nil {
		updates["transaction_borrow_date"] = dbtime.DateOf(*t.BorrowDate)
	}
	if t.DueDate != nil {
		updates["transaction_due_date"] = dbtime.DateOf(*t.DueDate)
	}
	if t.ReturnDate != nil {
		updates["transaction_return_date"] = dbtime.DateOf(*t.ReturnDate)
	}
	if t.PenaltyTotal != nil {
		updates["transaction_penalty_total"] = *t.PenaltyTotal
	}

	q := s.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("transaction_id = ?", id).
		Where("transaction_status_id IN ?", fromStatusIDs)
	if t.RequireOutstanding {
		q = q.Where("transaction_return_date IS NULL")
	}
	res := q.Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("transition: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// TakeCopy mengurangi stok satu eksemplar; false kalau stok sudah 0.
func (s *GormStore) TakeCopy(ctx context.Context, bookID uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&bookModel.BookModel{}).
		Where("book_id = ? AND book_copy_count > 0", bookID).
		UpdateColumn("book_copy_count", gorm.Expr("book_copy_count - 1"))
	if res.Error != nil {
		return false, fmt.Errorf("take copy: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ReturnCopy tetap jalan walau buku sudah di-soft-delete; fisiknya kembali ke rak.
func (s *GormStore) ReturnCopy(ctx context.Context, bookID uuid.UUID) error {
	err := s.db.WithContext(ctx).Unscoped().
		Model(&bookModel.BookModel{}).
		Where("book_id = ?", bookID).
		UpdateColumn("book_copy_count", gorm.Expr("book_copy_count + 1")).Error
	if err != nil {
		return fmt.Errorf("return copy: %w", err)
	}
	return nil
}

func (s *GormStore) InsertPenalty(ctx context.Context, p *penaltyModel.PenaltyModel) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert penalty: %w", err)
	}
	return nil
}

func (s *GormStore) ListOverdue(ctx context.Context, q OverdueQuery) ([]model.TransactionModel, error) {
	// tanggal dibandingkan sebagai literal YYYY-MM-DD agar tidak tergeser zona waktu sesi
	asOf := q.AsOf.Format(dbtime.DateLayout)

	tx := s.db.WithContext(ctx).
		Where("transaction_return_date IS NULL").
		Where("transaction_due_date IS NOT NULL").
		Where("transaction_due_date < ?", asOf)
	if len(q.ExcludeStatusIDs) > 0 {
		tx = tx.Where("transaction_status_id NOT IN ?", q.ExcludeStatusIDs)
	}
	if len(q.OnlyStatusIDs) > 0 {
		tx = tx.Where("transaction_status_id IN ?", q.OnlyStatusIDs)
	}

	var rows []model.TransactionModel
	if err := tx.Order("transaction_due_date ASC, transaction_code ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list overdue: %w", err)
	}
	return rows, nil
}

func wrapNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("find %s: %w", what, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "duplicate key") || strings.Contains(low, "unique constraint")
}
