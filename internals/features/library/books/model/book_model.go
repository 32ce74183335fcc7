package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookTypeFiction    = "fiction"
	BookTypeNonFiction = "non-fiction"
	BookTypeReference  = "reference"
	BookTypeTextbook   = "textbook"
	BookTypeJournal    = "journal"
	BookTypeOther      = "other"
)

var BookTypes = []string{
	BookTypeFiction, BookTypeNonFiction, BookTypeReference,
	BookTypeTextbook, BookTypeJournal, BookTypeOther,
}

type BookModel struct {
	BookID         uuid.UUID  `gorm:"type:uuid;primaryKey;column:book_id" json:"book_id"`
	BookCategoryID *uuid.UUID `gorm:"type:uuid;index;column:book_category_id" json:"book_category_id,omitempty"`

	BookTitle         string  `gorm:"type:text;not null;column:book_title" json:"book_title"`
	BookISBN          string  `gorm:"size:32;not null;uniqueIndex;column:book_isbn" json:"book_isbn"`
	BookAuthor        string  `gorm:"type:text;not null;column:book_author" json:"book_author"`
	BookPublisher     string  `gorm:"type:text;not null;column:book_publisher" json:"book_publisher"`
	BookYearPublished int     `gorm:"not null;column:book_year_published" json:"book_year_published"`
	BookCopyCount     int     `gorm:"not null;default:0;check:chk_book_copy_count,book_copy_count >= 0;column:book_copy_count" json:"book_copy_count"`
	BookPrice         *int64  `gorm:"column:book_price" json:"book_price,omitempty"`
	BookShelfLocation *string `gorm:"size:40;column:book_shelf_location" json:"book_shelf_location,omitempty"`
	BookType          string  `gorm:"type:varchar(20);not null;default:'other';column:book_type" json:"book_type"`
	BookSynopsis      *string `gorm:"type:text;column:book_synopsis" json:"book_synopsis,omitempty"`
	BookSource        *string `gorm:"size:80;column:book_source" json:"book_source,omitempty"`

	BookCreatedAt time.Time      `gorm:"autoCreateTime;column:book_created_at" json:"book_created_at"`
	BookUpdatedAt time.Time      `gorm:"autoUpdateTime;column:book_updated_at" json:"book_updated_at"`
	BookDeletedAt gorm.DeletedAt `gorm:"index;column:book_deleted_at" json:"book_deleted_at,omitempty"`
}

func (BookModel) TableName() string { return "books" }

func (m *BookModel) BeforeCreate(tx *gorm.DB) error {
	if m.BookID == uuid.Nil {
		m.BookID = uuid.New()
	}
	if m.BookType == "" {
		m.BookType = BookTypeOther
	}
	return nil
}
