package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Key locals untuk raw JWT yang sudah diverifikasi middleware.
const LocRawToken = "raw_token"

var (
	ErrNoToken          = errors.New("unauthorized - No token provided")
	ErrInvalidTokenForm = errors.New("unauthorized - Invalid token format")
)

// ExtractBearerToken membaca Authorization "Bearer <token>" dengan fallback cookie access_token.
func ExtractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" {
		if cookieTok := strings.TrimSpace(c.Cookies("access_token")); cookieTok != "" {
			return cookieTok, nil
		}
		return "", ErrNoToken
	}

	// toleransi spasi ganda & case-insensitive
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", ErrInvalidTokenForm
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// GetRawAccessToken: Locals dulu (sudah diverifikasi), lalu header/cookie.
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	tok, _ := ExtractBearerToken(c)
	return tok
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if raw = strings.TrimSpace(raw); raw != "" {
		c.Locals(LocRawToken, raw)
	}
}
