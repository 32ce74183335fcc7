package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"simpus_backend/internals/features/library/categories/model"
	helper "simpus_backend/internals/helpers"
)

var (
	ErrCategoryNotFound = errors.New("kategori tidak ditemukan")
	ErrCategoryExists   = errors.New("nama kategori sudah dipakai")
)

// CategoryWithCount: kategori + jumlah buku aktif di dalamnya.
type CategoryWithCount struct {
	model.CategoryModel
	BookCount int64 `gorm:"column:book_count"`
}

func List(ctx context.Context, db *gorm.DB, q string, includeDeleted bool, offset, limit int) ([]CategoryWithCount, int64, error) {
	tx := db.WithContext(ctx).Model(&model.CategoryModel{})
	if includeDeleted {
		tx = tx.Unscoped()
	}
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(category_name) LIKE ? OR category_slug LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	var rows []CategoryWithCount
	tx = tx.Select(`categories.*, (
			SELECT COUNT(*) FROM books b
			WHERE b.book_category_id = categories.category_id AND b.book_deleted_at IS NULL
		) AS book_count`).
		Order("category_name ASC")
	if limit > 0 {
		tx = tx.Offset(offset).Limit(limit)
	}
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	return rows, total, nil
}

func FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID, includeDeleted bool) (*model.CategoryModel, error) {
	tx := db.WithContext(ctx)
	if includeDeleted {
		tx = tx.Unscoped()
	}
	var m model.CategoryModel
	if err := tx.First(&m, "category_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &m, nil
}

// nameTaken: nama unik (case-insensitive) di antara kategori yang belum dihapus.
func nameTaken(ctx context.Context, db *gorm.DB, name string, except uuid.UUID) (bool, error) {
	var n int64
	tx := db.WithContext(ctx).Model(&model.CategoryModel{}).
		Where("LOWER(category_name) = ?", strings.ToLower(name))
	if except != uuid.Nil {
		tx = tx.Where("category_id <> ?", except)
	}
	if err := tx.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// uniqueSlug memeriksa juga baris yang sudah di-soft-delete (unique index mencakup semuanya).
func uniqueSlug(ctx context.Context, db *gorm.DB, name string, except uuid.UUID) (string, error) {
	var scope func(*gorm.DB) *gorm.DB
	if except != uuid.Nil {
		scope = func(q *gorm.DB) *gorm.DB { return q.Where("category_id <> ?", except) }
	}
	base := helper.Slugify(name, 140)
	return helper.EnsureUniqueSlugCI(ctx, db, "categories", "category_slug", base, scope, 140)
}

func Create(ctx context.Context, db *gorm.DB, name string) (*model.CategoryModel, error) {
	var out *model.CategoryModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(ctx, tx, name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrCategoryExists
		}
		slug, err := uniqueSlug(ctx, tx, name, uuid.Nil)
		if err != nil {
			return err
		}
		m := &model.CategoryModel{CategoryName: name, CategorySlug: slug}
		if err := tx.Create(m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrCategoryExists
			}
			return err
		}
		out = m
		return nil
	})
	return out, err
}

// Rename mengganti nama; slug ikut dibentuk ulang.
func Rename(ctx context.Context, db *gorm.DB, id uuid.UUID, name string) (*model.CategoryModel, error) {
	var out *model.CategoryModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := FindByID(ctx, tx, id, false)
		if err != nil {
			return err
		}
		taken, err := nameTaken(ctx, tx, name, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrCategoryExists
		}
		if m.CategoryName != name {
			slug, err := uniqueSlug(ctx, tx, name, id)
			if err != nil {
				return err
			}
			m.CategoryName, m.CategorySlug = name, slug
			if err := tx.Save(m).Error; err != nil {
				return err
			}
		}
		out = m
		return nil
	})
	return out, err
}

// SoftDelete tidak menyentuh buku; book_category_id tetap menunjuk kategori yang terhapus.
func SoftDelete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("category_id = ?", id).Delete(&model.CategoryModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func Restore(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.CategoryModel, error) {
	res := db.WithContext(ctx).Unscoped().Model(&model.CategoryModel{}).
		Where("category_id = ? AND category_deleted_at IS NOT NULL", id).
		Update("category_deleted_at", nil)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrCategoryNotFound
	}
	return FindByID(ctx, db, id, false)
}
