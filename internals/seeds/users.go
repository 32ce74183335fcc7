package seeds

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"simpus_backend/internals/constants"
	authService "simpus_backend/internals/features/users/auth/service"
	userModel "simpus_backend/internals/features/users/user/model"
)

type userSeed struct {
	UserName string `yaml:"user_name"`
	FullName string `yaml:"full_name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Detail   *struct {
		NIS         string `yaml:"nis"`
		Class       string `yaml:"class"`
		PhoneNumber string `yaml:"phone_number"`
	} `yaml:"detail"`
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// SeedUsers membuat satu akun per role; role di luar daftar ditolak.
func SeedUsers(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var rows []userSeed
	if err := load("users.yaml", &rows); err != nil {
		return err
	}
	created := 0
	for _, r := range rows {
		if !constants.IsKnownRole(r.Role) {
			return fmt.Errorf("user %s: role %q tidak dikenal", r.Email, r.Role)
		}
		var n int64
		if err := db.WithContext(ctx).Unscoped().Model(&userModel.UserModel{}).
			Where("email = ? OR user_name = ?", r.Email, r.UserName).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			log.Debug("[SEED] user sudah ada", zap.String("email", r.Email))
			continue
		}

		hash, err := authService.HashPassword(r.Password)
		if err != nil {
			return fmt.Errorf("hash password %s: %w", r.Email, err)
		}
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			u := userModel.UserModel{
				UserName: r.UserName,
				FullName: r.FullName,
				Email:    r.Email,
				Password: hash,
				Role:     r.Role,
				IsActive: true,
			}
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
			if r.Role != constants.RoleSiswa {
				return nil
			}
			d := userModel.UserDetailModel{UserDetailUserID: u.ID, UserDetailMembershipStatus: constants.MembershipActive}
			if r.Detail != nil {
				d.UserDetailNIS = optional(r.Detail.NIS)
				d.UserDetailClass = optional(r.Detail.Class)
				d.UserDetailPhoneNumber = optional(r.Detail.PhoneNumber)
			}
			return tx.Create(&d).Error
		})
		if err != nil {
			return fmt.Errorf("user %s: %w", r.Email, err)
		}
		created++
	}
	log.Info("[SEED] users", zap.Int("created", created))
	return nil
}
