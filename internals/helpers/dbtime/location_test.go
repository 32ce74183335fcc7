package dbtime

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func todayVia(t *testing.T, pre fiber.Handler, fallback *time.Location) string {
	t.Helper()
	// 20:00 UTC = 03:00 WIB keesokan harinya
	now := time.Date(2024, 1, 7, 20, 0, 0, 0, time.UTC)

	app := fiber.New()
	app.Get("/", pre, func(c *fiber.Ctx) error {
		return c.SendString(TodayIn(c, now, fallback).Format(DateLayout))
	})
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func TestLibraryLocationFromMiddleware(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	require.Equal(t, "2024-01-08", todayVia(t, WithLibraryLocation(wib), time.UTC))
}

func TestLibraryLocationFromTimezoneName(t *testing.T) {
	setTZ := func(c *fiber.Ctx) error {
		c.Locals(LocLibraryTimezone, "Asia/Jakarta")
		return c.Next()
	}
	require.Equal(t, "2024-01-08", todayVia(t, setTZ, time.UTC))
}

func TestLibraryLocationFallback(t *testing.T) {
	noop := func(c *fiber.Ctx) error { return c.Next() }
	require.Equal(t, "2024-01-07", todayVia(t, noop, nil))
	require.Equal(t, "2024-01-08", todayVia(t, noop, time.FixedZone("WIB", 7*3600)))
}
