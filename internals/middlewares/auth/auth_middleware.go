package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"simpus_backend/internals/configs"
	authModel "simpus_backend/internals/features/users/auth/model"
	helper "simpus_backend/internals/helpers"
)

const expirySkew = 30 * time.Second

// AuthMiddleware memverifikasi access token (header Bearer atau cookie access_token),
// menolak token yang sudah di-blacklist dan akun nonaktif, lalu menaruh
// user_id, userRole, user_name ke Locals.
func AuthMiddleware(db *gorm.DB, log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		tokenString, err := helper.ExtractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}

		var existing authModel.TokenBlacklistModel
		err = db.WithContext(c.UserContext()).
			Where("token_blacklist_token = ?", tokenString).
			Take(&existing).Error
		switch {
		case err == nil:
			log.Warn("[AUTH] token ada di blacklist", zap.String("path", c.Path()))
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
		case !errors.Is(err, gorm.ErrRecordNotFound):
			log.Error("[AUTH] gagal cek blacklist", zap.Error(err))
			return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}

		claims, err := ParseClaims(tokenString)
		if err != nil {
			log.Debug("[AUTH] token ditolak", zap.Error(err))
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - "+err.Error())
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		if err := ensureUserActive(db, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			return helper.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
		}

		c.Locals(helper.LocUserID, userID.String())
		if role, ok := claims["role"].(string); ok {
			c.Locals(helper.LocUserRole, role)
		}
		if name, ok := claims["user_name"].(string); ok {
			c.Locals(helper.LocUserName, name)
		}
		helper.SetRawAccessToken(c, tokenString)
		return c.Next()
	}
}

// ParseClaims memverifikasi tanda tangan HS256 lalu exp (toleransi 30 detik).
func ParseClaims(tokenString string) (jwt.MapClaims, error) {
	secret := configs.JWTSecret
	if secret == "" {
		return nil, errors.New("missing JWT secret")
	}

	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.New("token parse error")
	}
	if err := validateTokenExpiry(claims, expirySkew); err != nil {
		return nil, err
	}
	return claims, nil
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) error {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return errors.New("token has no exp")
	}
	expTime := time.Unix(int64(exp), 0).UTC()
	if time.Now().UTC().After(expTime.Add(skew)) {
		return errors.New("token expired")
	}
	return nil
}

func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	raw, ok := claims["id"].(string)
	if !ok {
		return uuid.Nil, errors.New("no user id")
	}
	return uuid.Parse(strings.TrimSpace(raw))
}

func ensureUserActive(db *gorm.DB, userID uuid.UUID) error {
	var user struct {
		IsActive bool
	}
	if err := db.Table("users").Select("is_active").
		Where("id = ? AND deleted_at IS NULL", userID).
		Take(&user).Error; err != nil {
		return err
	}
	if !user.IsActive {
		return errors.New("user inactive")
	}
	return nil
}
