package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	bookModel "simpus_backend/internals/features/library/books/model"
	categoryModel "simpus_backend/internals/features/library/categories/model"
	penaltyModel "simpus_backend/internals/features/library/penalties/model"
	settingModel "simpus_backend/internals/features/library/settings/model"
	statusModel "simpus_backend/internals/features/library/statuses/model"
	"simpus_backend/internals/features/library/transactions/events"
	txModel "simpus_backend/internals/features/library/transactions/model"
	authModel "simpus_backend/internals/features/users/auth/model"
	userModel "simpus_backend/internals/features/users/user/model"
)

// Models: urutan mengikuti dependensi (referensi ke tabel yang sudah ada).
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&userModel.UserDetailModel{},
		&authModel.TokenBlacklistModel{},
		&categoryModel.CategoryModel{},
		&bookModel.BookModel{},
		&statusModel.StatusModel{},
		&txModel.TransactionModel{},
		&penaltyModel.PenaltyModel{},
		&penaltyModel.PenaltyPaymentModel{},
		&settingModel.SettingModel{},
		&events.LoanEventModel{},
	}
}

func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	for _, m := range Models() {
		if err := db.WithContext(ctx).AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
		log.Debug("[MIGRATE] ok", zap.String("model", fmt.Sprintf("%T", m)))
	}
	log.Info("[MIGRATE] selesai", zap.Int("tables", len(Models())))
	return nil
}
