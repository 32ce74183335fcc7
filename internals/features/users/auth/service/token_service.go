package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"simpus_backend/internals/configs"
	userModel "simpus_backend/internals/features/users/user/model"
)

const (
	accessTTLDefault = 24 * time.Hour
	minBlacklistTTL  = time.Minute
)

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserView  `json:"user"`
}

func getJWTSecret() (string, error) {
	if configs.JWTSecret == "" {
		return "", errors.New("JWT_SECRET belum diset")
	}
	return configs.JWTSecret, nil
}

func buildAccessClaims(user userModel.UserModel, now time.Time, ttl time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":       "access",
		"sub":       user.ID.String(),
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
}

// IssueAccessToken menandatangani access token HS256 untuk user.
func IssueAccessToken(user userModel.UserModel, now time.Time) (TokenResponse, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return TokenResponse{}, err
	}
	claims := buildAccessClaims(user, now, accessTTLDefault)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(accessTTLDefault).UTC(),
		User:        ToUserView(user),
	}, nil
}

// resolveBlacklistTTL: sisa umur token dari klaim exp (tanpa verifikasi ulang);
// fallback ke ttl default.
func resolveBlacklistTTL(accessToken string, fallback time.Duration, now time.Time) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(accessToken, claims); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			left := time.Unix(int64(exp), 0).Sub(now)
			if left < minBlacklistTTL {
				left = minBlacklistTTL
			}
			return left
		}
	}
	return fallback
}
