package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "simpus_backend/internals/features/users/auth/model"
	userModel "simpus_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

func FindUserByEmailOrUsername(ctx context.Context, db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	identifier = strings.TrimSpace(identifier)
	if err := db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) OR user_name = ?", identifier, identifier).
		Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByGoogleID(ctx context.Context, db *gorm.DB, googleID string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("google_id = ?", googleID).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByID ikut memuat profil keanggotaan (bisa nil).
func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Preload("Detail").Where("id = ?", userID).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUserWithDetail menyimpan user dan user_details dalam satu transaksi.
func CreateUserWithDetail(ctx context.Context, db *gorm.DB, user *userModel.UserModel, detail *userModel.UserDetailModel) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Detail").Create(user).Error; err != nil {
			return err
		}
		if detail == nil {
			return nil
		}
		detail.UserDetailUserID = user.ID
		if err := tx.Create(detail).Error; err != nil {
			return err
		}
		user.Detail = detail
		return nil
	})
}

func UpdateUserPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, newHash string) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", newHash).Error
}

func LinkGoogleID(ctx context.Context, db *gorm.DB, userID uuid.UUID, googleID string) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ? AND google_id IS NULL", userID).
		Update("google_id", googleID).Error
}

func IsUsernameTaken(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	if username == "" {
		return false, errors.New("username cannot be empty")
	}
	var n int64
	err := db.WithContext(ctx).Unscoped().Model(&userModel.UserModel{}).
		Where("user_name = ?", username).
		Count(&n).Error
	return n > 0, err
}

/* ====================== BLACKLIST TOKEN ====================== */

// BlacklistToken idempotent: token yang sudah ada tidak dianggap error.
func BlacklistToken(ctx context.Context, db *gorm.DB, token string, userID *string, ttl time.Duration) error {
	var n int64
	if err := db.WithContext(ctx).Model(&authModel.TokenBlacklistModel{}).
		Where("token_blacklist_token = ?", token).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&authModel.TokenBlacklistModel{
		Token:     token,
		UserID:    userID,
		ExpiredAt: time.Now().UTC().Add(ttl),
	}).Error
}

// CleanupExpiredBlacklist menghapus permanen token yang kadaluarsa sebelum `before`.
func CleanupExpiredBlacklist(ctx context.Context, db *gorm.DB, before time.Time, limit int) (int64, error) {
	var ids []uint
	q := db.WithContext(ctx).Unscoped().Model(&authModel.TokenBlacklistModel{}).
		Where("token_blacklist_expired_at < ?", before)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Pluck("token_blacklist_id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Unscoped().Where("token_blacklist_id IN ?", ids).Delete(&authModel.TokenBlacklistModel{})
	return res.RowsAffected, res.Error
}
