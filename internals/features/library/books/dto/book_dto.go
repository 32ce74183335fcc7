package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"simpus_backend/internals/features/library/books/model"
)

/* =========================
   REQUEST
========================= */

type BookCreateRequest struct {
	BookCategoryID    *string `json:"book_category_id" validate:"omitempty,uuid"`
	BookTitle         string  `json:"book_title" validate:"required,max=300"`
	BookISBN          string  `json:"book_isbn" validate:"required,min=10,max=32"`
	BookAuthor        string  `json:"book_author" validate:"required,max=200"`
	BookPublisher     string  `json:"book_publisher" validate:"required,max=200"`
	BookYearPublished int     `json:"book_year_published" validate:"required,gte=1000,lte=9999"`
	BookCopyCount     int     `json:"book_copy_count" validate:"gte=0"`
	BookPrice         *int64  `json:"book_price" validate:"omitempty,gte=0"`
	BookShelfLocation *string `json:"book_shelf_location" validate:"omitempty,max=40"`
	BookType          string  `json:"book_type" validate:"omitempty,oneof=fiction non-fiction reference textbook journal other"`
	BookSynopsis      *string `json:"book_synopsis"`
	BookSource        *string `json:"book_source" validate:"omitempty,max=80"`
}

// BookUpdateRequest: field nil tidak diubah.
type BookUpdateRequest struct {
	BookCategoryID    *string `json:"book_category_id" validate:"omitempty,uuid"`
	ClearCategory     bool    `json:"clear_category"`
	BookTitle         *string `json:"book_title" validate:"omitempty,min=1,max=300"`
	BookISBN          *string `json:"book_isbn" validate:"omitempty,min=10,max=32"`
	BookAuthor        *string `json:"book_author" validate:"omitempty,min=1,max=200"`
	BookPublisher     *string `json:"book_publisher" validate:"omitempty,min=1,max=200"`
	BookYearPublished *int    `json:"book_year_published" validate:"omitempty,gte=1000,lte=9999"`
	BookCopyCount     *int    `json:"book_copy_count" validate:"omitempty,gte=0"`
	BookPrice         *int64  `json:"book_price" validate:"omitempty,gte=0"`
	BookShelfLocation *string `json:"book_shelf_location" validate:"omitempty,max=40"`
	BookType          *string `json:"book_type" validate:"omitempty,oneof=fiction non-fiction reference textbook journal other"`
	BookSynopsis      *string `json:"book_synopsis"`
	BookSource        *string `json:"book_source" validate:"omitempty,max=80"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// NormalizeISBN membuang spasi dan tanda hubung.
func NormalizeISBN(s string) string {
	return strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(s)))
}

func (r *BookCreateRequest) Normalize() {
	r.BookCategoryID = trimPtr(r.BookCategoryID)
	r.BookTitle = strings.TrimSpace(r.BookTitle)
	r.BookISBN = NormalizeISBN(r.BookISBN)
	r.BookAuthor = strings.TrimSpace(r.BookAuthor)
	r.BookPublisher = strings.TrimSpace(r.BookPublisher)
	r.BookShelfLocation = trimPtr(r.BookShelfLocation)
	r.BookType = strings.ToLower(strings.TrimSpace(r.BookType))
	r.BookSynopsis = trimPtr(r.BookSynopsis)
	r.BookSource = trimPtr(r.BookSource)
}

func (r *BookUpdateRequest) Normalize() {
	r.BookCategoryID = trimPtr(r.BookCategoryID)
	if r.BookTitle != nil {
		v := strings.TrimSpace(*r.BookTitle)
		r.BookTitle = &v
	}
	if r.BookISBN != nil {
		v := NormalizeISBN(*r.BookISBN)
		r.BookISBN = &v
	}
	if r.BookAuthor != nil {
		v := strings.TrimSpace(*r.BookAuthor)
		r.BookAuthor = &v
	}
	if r.BookPublisher != nil {
		v := strings.TrimSpace(*r.BookPublisher)
		r.BookPublisher = &v
	}
	if r.BookType != nil {
		v := strings.ToLower(strings.TrimSpace(*r.BookType))
		r.BookType = &v
	}
	r.BookShelfLocation = trimPtr(r.BookShelfLocation)
	r.BookSynopsis = trimPtr(r.BookSynopsis)
	r.BookSource = trimPtr(r.BookSource)
}

func parseOptUUID(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}

func (r *BookCreateRequest) ToModel() *model.BookModel {
	return &model.BookModel{
		BookCategoryID:    parseOptUUID(r.BookCategoryID),
		BookTitle:         r.BookTitle,
		BookISBN:          r.BookISBN,
		BookAuthor:        r.BookAuthor,
		BookPublisher:     r.BookPublisher,
		BookYearPublished: r.BookYearPublished,
		BookCopyCount:     r.BookCopyCount,
		BookPrice:         r.BookPrice,
		BookShelfLocation: r.BookShelfLocation,
		BookType:          r.BookType,
		BookSynopsis:      r.BookSynopsis,
		BookSource:        r.BookSource,
	}
}

// CategoryID mengembalikan kategori baru yang diminta (nil = tidak berubah).
func (r *BookUpdateRequest) CategoryID() *uuid.UUID {
	return parseOptUUID(r.BookCategoryID)
}

func (r *BookUpdateRequest) ApplyToModel(m *model.BookModel) {
	if id := r.CategoryID(); id != nil {
		m.BookCategoryID = id
	} else if r.ClearCategory {
		m.BookCategoryID = nil
	}
	if r.BookTitle != nil {
		m.BookTitle = *r.BookTitle
	}
	if r.BookISBN != nil {
		m.BookISBN = *r.BookISBN
	}
	if r.BookAuthor != nil {
		m.BookAuthor = *r.BookAuthor
	}
	if r.BookPublisher != nil {
		m.BookPublisher = *r.BookPublisher
	}
	if r.BookYearPublished != nil {
		m.BookYearPublished = *r.BookYearPublished
	}
	if r.BookCopyCount != nil {
		m.BookCopyCount = *r.BookCopyCount
	}
	if r.BookPrice != nil {
		m.BookPrice = r.BookPrice
	}
	if r.BookShelfLocation != nil {
		m.BookShelfLocation = r.BookShelfLocation
	}
	if r.BookType != nil {
		m.BookType = *r.BookType
	}
	if r.BookSynopsis != nil {
		m.BookSynopsis = r.BookSynopsis
	}
	if r.BookSource != nil {
		m.BookSource = r.BookSource
	}
}

/* =========================
   RESPONSE
========================= */

type BookResponse struct {
	BookID            uuid.UUID  `json:"book_id"`
	BookCategoryID    *uuid.UUID `json:"book_category_id,omitempty"`
	CategoryName      *string    `json:"category_name,omitempty"`
	BookTitle         string     `json:"book_title"`
	BookISBN          string     `json:"book_isbn"`
	BookAuthor        string     `json:"book_author"`
	BookPublisher     string     `json:"book_publisher"`
	BookYearPublished int        `json:"book_year_published"`
	BookCopyCount     int        `json:"book_copy_count"`
	BookPrice         *int64     `json:"book_price,omitempty"`
	BookShelfLocation *string    `json:"book_shelf_location,omitempty"`
	BookType          string     `json:"book_type"`
	BookSynopsis      *string    `json:"book_synopsis,omitempty"`
	BookSource        *string    `json:"book_source,omitempty"`
	CreatedAt         time.Time  `json:"book_created_at"`
	UpdatedAt         time.Time  `json:"book_updated_at"`
	DeletedAt         *time.Time `json:"book_deleted_at,omitempty"`
}

func ToBookResponse(m *model.BookModel) BookResponse {
	r := BookResponse{
		BookID:            m.BookID,
		BookCategoryID:    m.BookCategoryID,
		BookTitle:         m.BookTitle,
		BookISBN:          m.BookISBN,
		BookAuthor:        m.BookAuthor,
		BookPublisher:     m.BookPublisher,
		BookYearPublished: m.BookYearPublished,
		BookCopyCount:     m.BookCopyCount,
		BookPrice:         m.BookPrice,
		BookShelfLocation: m.BookShelfLocation,
		BookType:          m.BookType,
		BookSynopsis:      m.BookSynopsis,
		BookSource:        m.BookSource,
		CreatedAt:         m.BookCreatedAt,
		UpdatedAt:         m.BookUpdatedAt,
	}
	if m.BookDeletedAt.Valid {
		t := m.BookDeletedAt.Time
		r.DeletedAt = &t
	}
	return r
}
