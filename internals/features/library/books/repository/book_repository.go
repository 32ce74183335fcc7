package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"simpus_backend/internals/constants"
	"simpus_backend/internals/features/library/books/model"
	categoryModel "simpus_backend/internals/features/library/categories/model"
)

var (
	ErrBookNotFound    = errors.New("buku tidak ditemukan")
	ErrISBNTaken       = errors.New("ISBN sudah terdaftar")
	ErrCategoryMissing = errors.New("kategori tidak ditemukan")
	ErrBookOnLoan      = errors.New("buku masih dipinjam")
)

type ListQuery struct {
	Q              string
	CategoryID     *uuid.UUID
	Type           string
	AvailableOnly  bool
	IncludeDeleted bool
	Sort           string
	Offset         int
	Limit          int
}

// BookRow: buku + nama kategori (LEFT JOIN).
type BookRow struct {
	model.BookModel
	CategoryName *string `gorm:"column:category_name"`
}

var sortColumns = map[string]string{
	"title":  "books.book_title ASC",
	"-title": "books.book_title DESC",
	"year":   "books.book_year_published ASC",
	"-year":  "books.book_year_published DESC",
	"newest": "books.book_created_at DESC",
	"author": "books.book_author ASC",
}

func List(ctx context.Context, db *gorm.DB, q ListQuery) ([]BookRow, int64, error) {
	tx := db.WithContext(ctx).Model(&model.BookModel{})
	if q.IncludeDeleted {
		tx = tx.Unscoped()
	}
	tx = tx.Joins("LEFT JOIN categories c ON c.category_id = books.book_category_id AND c.category_deleted_at IS NULL")

	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where(`LOWER(books.book_title) LIKE ? OR LOWER(books.book_author) LIKE ?
			OR LOWER(books.book_publisher) LIKE ? OR books.book_isbn LIKE ?`,
			like, like, like, "%"+strings.ToUpper(s)+"%")
	}
	if q.CategoryID != nil {
		tx = tx.Where("books.book_category_id = ?", *q.CategoryID)
	}
	if q.Type != "" {
		tx = tx.Where("books.book_type = ?", q.Type)
	}
	if q.AvailableOnly {
		tx = tx.Where("books.book_copy_count > 0")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	order, ok := sortColumns[q.Sort]
	if !ok {
		order = sortColumns["title"]
	}
	var rows []BookRow
	tx = tx.Select("books.*, c.category_name AS category_name").Order(order)
	if q.Limit > 0 {
		tx = tx.Offset(q.Offset).Limit(q.Limit)
	}
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return rows, total, nil
}

func FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID, includeDeleted bool) (*BookRow, error) {
	tx := db.WithContext(ctx).Model(&model.BookModel{})
	if includeDeleted {
		tx = tx.Unscoped()
	}
	var row BookRow
	err := tx.Select("books.*, c.category_name AS category_name").
		Joins("LEFT JOIN categories c ON c.category_id = books.book_category_id AND c.category_deleted_at IS NULL").
		Where("books.book_id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &row, nil
}

func ensureCategory(ctx context.Context, db *gorm.DB, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(&categoryModel.CategoryModel{}).
		Where("category_id = ?", *id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrCategoryMissing
	}
	return nil
}

func isbnTaken(ctx context.Context, db *gorm.DB, isbn string, except uuid.UUID) (bool, error) {
	var n int64
	tx := db.WithContext(ctx).Unscoped().Model(&model.BookModel{}).Where("book_isbn = ?", isbn)
	if except != uuid.Nil {
		tx = tx.Where("book_id <> ?", except)
	}
	if err := tx.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// outstandingLoans: pinjaman yang bukunya belum kembali.
func outstandingLoans(ctx context.Context, db *gorm.DB, bookID uuid.UUID) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Table("transactions t").
		Joins("JOIN statuses s ON s.status_id = t.transaction_status_id").
		Where("t.transaction_book_id = ?", bookID).
		Where("t.transaction_return_date IS NULL").
		Where("t.transaction_deleted_at IS NULL").
		Where("s.status_code IN ?", constants.OutstandingStatusCodes).
		Count(&n).Error
	return n, err
}

func Create(ctx context.Context, db *gorm.DB, m *model.BookModel) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategory(ctx, tx, m.BookCategoryID); err != nil {
			return err
		}
		taken, err := isbnTaken(ctx, tx, m.BookISBN, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrISBNTaken
		}
		if err := tx.Create(m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrISBNTaken
			}
			return err
		}
		return nil
	})
}

// Update memuat buku, menerapkan apply, lalu menyimpan.
// book_copy_count = eksemplar di rak (tidak termasuk yang sedang dipinjam).
func Update(ctx context.Context, db *gorm.DB, id uuid.UUID, apply func(*model.BookModel)) (*model.BookModel, error) {
	var out model.BookModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, "book_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		apply(&out)
		if err := ensureCategory(ctx, tx, out.BookCategoryID); err != nil {
			return err
		}
		taken, err := isbnTaken(ctx, tx, out.BookISBN, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrISBNTaken
		}
		if err := tx.Save(&out).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrISBNTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SoftDelete menolak buku yang masih dipinjam.
func SoftDelete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := outstandingLoans(ctx, tx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrBookOnLoan
		}
		res := tx.Where("book_id = ?", id).Delete(&model.BookModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookNotFound
		}
		return nil
	})
}

func Restore(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	res := db.WithContext(ctx).Unscoped().Model(&model.BookModel{}).
		Where("book_id = ? AND book_deleted_at IS NOT NULL", id).
		Update("book_deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}
