package seeds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	bookModel "simpus_backend/internals/features/library/books/model"
	categoryModel "simpus_backend/internals/features/library/categories/model"
	settingModel "simpus_backend/internals/features/library/settings/model"
	statusModel "simpus_backend/internals/features/library/statuses/model"
	helper "simpus_backend/internals/helpers"
)

type statusSeed struct {
	Code          string `yaml:"code"`
	Name          string `yaml:"name"`
	PenaltyAmount int64  `yaml:"penalty_amount"`
}

// SeedStatuses: nominal yang sudah diubah admin tidak ditimpa.
func SeedStatuses(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var rows []statusSeed
	if err := load("statuses.yaml", &rows); err != nil {
		return err
	}
	created := 0
	for _, r := range rows {
		var n int64
		if err := db.WithContext(ctx).Model(&statusModel.StatusModel{}).
			Where("status_code = ?", r.Code).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		m := statusModel.StatusModel{StatusCode: r.Code, StatusName: r.Name, StatusPenaltyAmount: r.PenaltyAmount}
		if err := db.WithContext(ctx).Create(&m).Error; err != nil {
			return fmt.Errorf("status %s: %w", r.Code, err)
		}
		created++
	}
	log.Info("[SEED] statuses", zap.Int("created", created), zap.Int("total", len(rows)))
	return nil
}

func SeedCategories(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var names []string
	if err := load("categories.yaml", &names); err != nil {
		return err
	}
	created := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := helper.Slugify(name, 140)
		var n int64
		if err := db.WithContext(ctx).Unscoped().Model(&categoryModel.CategoryModel{}).
			Where("category_slug = ?", slug).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if err := db.WithContext(ctx).Create(&categoryModel.CategoryModel{CategoryName: name, CategorySlug: slug}).Error; err != nil {
			return fmt.Errorf("kategori %s: %w", name, err)
		}
		created++
	}
	log.Info("[SEED] categories", zap.Int("created", created))
	return nil
}

type bookSeed struct {
	Title         string `yaml:"title"`
	ISBN          string `yaml:"isbn"`
	Author        string `yaml:"author"`
	Publisher     string `yaml:"publisher"`
	YearPublished int    `yaml:"year_published"`
	CopyCount     int    `yaml:"copy_count"`
	Type          string `yaml:"type"`
	Category      string `yaml:"category"`
	ShelfLocation string `yaml:"shelf_location"`
}

// SeedBooks: kategori dirujuk lewat slug; slug yang tidak ada membuat buku tanpa kategori.
func SeedBooks(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var rows []bookSeed
	if err := load("books.yaml", &rows); err != nil {
		return err
	}
	created := 0
	for _, r := range rows {
		var n int64
		if err := db.WithContext(ctx).Unscoped().Model(&bookModel.BookModel{}).
			Where("book_isbn = ?", r.ISBN).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}

		b := bookModel.BookModel{
			BookTitle:         r.Title,
			BookISBN:          r.ISBN,
			BookAuthor:        r.Author,
			BookPublisher:     r.Publisher,
			BookYearPublished: r.YearPublished,
			BookCopyCount:     r.CopyCount,
			BookType:          r.Type,
		}
		if r.ShelfLocation != "" {
			loc := r.ShelfLocation
			b.BookShelfLocation = &loc
		}
		if r.Category != "" {
			var cat categoryModel.CategoryModel
			err := db.WithContext(ctx).Where("category_slug = ?", r.Category).Take(&cat).Error
			switch {
			case err == nil:
				b.BookCategoryID = &cat.CategoryID
			case errors.Is(err, gorm.ErrRecordNotFound):
				log.Warn("[SEED] kategori buku tidak ada", zap.String("isbn", r.ISBN), zap.String("category", r.Category))
			default:
				return err
			}
		}
		if err := db.WithContext(ctx).Create(&b).Error; err != nil {
			return fmt.Errorf("buku %s: %w", r.ISBN, err)
		}
		created++
	}
	log.Info("[SEED] books", zap.Int("created", created))
	return nil
}

type settingSeed struct {
	LibraryName string `yaml:"library_name"`
	Address     string `yaml:"address"`
	Phone       string `yaml:"phone"`
	LimitDay    int    `yaml:"limit_day"`
}

// SeedSettings hanya membuat baris bila tabel masih kosong.
func SeedSettings(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var n int64
	if err := db.WithContext(ctx).Model(&settingModel.SettingModel{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var s settingSeed
	if err := load("settings.yaml", &s); err != nil {
		return err
	}
	m := settingModel.SettingModel{SettingLibraryName: s.LibraryName, SettingLimitDay: s.LimitDay}
	if s.Address != "" {
		m.SettingAddress = &s.Address
	}
	if s.Phone != "" {
		m.SettingPhone = &s.Phone
	}
	if err := db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	log.Info("[SEED] settings dibuat", zap.String("library", s.LibraryName))
	return nil
}
