package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"simpus_backend/internals/features/library/statuses/model"
)

var (
	ErrStatusNotFound  = errors.New("status tidak ditemukan")
	ErrStatusNameTaken = errors.New("nama status sudah dipakai")
)

func List(ctx context.Context, db *gorm.DB) ([]model.StatusModel, error) {
	var out []model.StatusModel
	err := db.WithContext(ctx).Order("status_penalty_amount ASC, status_code ASC").Find(&out).Error
	return out, err
}

// Update hanya mengubah nama tampilan dan nominal denda; kode status tetap.
func Update(ctx context.Context, db *gorm.DB, id uuid.UUID, name *string, amount *int64) (*model.StatusModel, error) {
	var m model.StatusModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "status_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStatusNotFound
			}
			return err
		}
		updates := map[string]any{}
		if name != nil && *name != m.StatusName {
			updates["status_name"] = *name
		}
		if amount != nil {
			updates["status_penalty_amount"] = *amount
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&m).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrStatusNameTaken
			}
			return err
		}
		return tx.First(&m, "status_id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}
