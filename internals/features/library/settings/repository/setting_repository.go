package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"simpus_backend/internals/features/library/settings/model"
)

var ErrSettingMissing = errors.New("pengaturan perpustakaan belum diisi")

// Get mengambil baris pengaturan (hanya ada satu).
func Get(ctx context.Context, db *gorm.DB) (*model.SettingModel, error) {
	var m model.SettingModel
	err := db.WithContext(ctx).Order("setting_created_at ASC").Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingMissing
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert membuat baris pertama atau memperbarui yang sudah ada.
func Upsert(ctx context.Context, db *gorm.DB, apply func(*model.SettingModel)) (*model.SettingModel, error) {
	var out model.SettingModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Order("setting_created_at ASC").Take(&out).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			apply(&out)
			return tx.Create(&out).Error
		case err != nil:
			return err
		}
		apply(&out)
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
