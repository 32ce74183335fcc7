package dbtime

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Nama locals zona waktu perpustakaan per request.
const (
	LocLibraryTimezone = "library_timezone" // string, misal "Asia/Jakarta"
	LocLibraryLoc      = "library_loc"      // *time.Location
)

// WithLibraryLocation mengisi locals zona waktu bila belum diisi handler sebelumnya.
func WithLibraryLocation(loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if loc != nil && c.Locals(LocLibraryLoc) == nil {
			c.Locals(LocLibraryLoc, loc)
		}
		return c.Next()
	}
}

// LibraryLocation: urutannya locals "library_loc", lalu "library_timezone", lalu fallback, terakhir UTC.
func LibraryLocation(c *fiber.Ctx, fallback *time.Location) *time.Location {
	if c != nil {
		if v, ok := c.Locals(LocLibraryLoc).(*time.Location); ok && v != nil {
			return v
		}
		if s, ok := c.Locals(LocLibraryTimezone).(string); ok && strings.TrimSpace(s) != "" {
			if loc, err := time.LoadLocation(strings.TrimSpace(s)); err == nil {
				// cache ke locals
				c.Locals(LocLibraryLoc, loc)
				return loc
			}
		}
	}
	if fallback != nil {
		return fallback
	}
	return time.UTC
}

// TodayIn adalah Today dengan zona dari request.
func TodayIn(c *fiber.Ctx, now time.Time, fallback *time.Location) time.Time {
	return Today(now, LibraryLocation(c, fallback))
}
