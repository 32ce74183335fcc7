package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"simpus_backend/internals/features/library/categories/model"
)

type CategoryRequest struct {
	CategoryName string `json:"category_name" validate:"required,min=2,max=120"`
}

func (r *CategoryRequest) Normalize() {
	r.CategoryName = strings.Join(strings.Fields(r.CategoryName), " ")
}

type CategoryResponse struct {
	CategoryID   uuid.UUID  `json:"category_id"`
	CategoryName string     `json:"category_name"`
	CategorySlug string     `json:"category_slug"`
	BookCount    *int64     `json:"book_count,omitempty"`
	CreatedAt    time.Time  `json:"category_created_at"`
	UpdatedAt    time.Time  `json:"category_updated_at"`
	DeletedAt    *time.Time `json:"category_deleted_at,omitempty"`
}

func ToCategoryResponse(m *model.CategoryModel) CategoryResponse {
	r := CategoryResponse{
		CategoryID:   m.CategoryID,
		CategoryName: m.CategoryName,
		CategorySlug: m.CategorySlug,
		CreatedAt:    m.CategoryCreatedAt,
		UpdatedAt:    m.CategoryUpdatedAt,
	}
	if m.CategoryDeletedAt.Valid {
		t := m.CategoryDeletedAt.Time
		r.DeletedAt = &t
	}
	return r
}
