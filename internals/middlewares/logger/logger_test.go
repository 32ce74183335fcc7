package logger

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "simpus_backend/internals/helpers"
)

func TestAccessLogCarriesActor(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(newAccessLog("UTC", &buf))
	app.Get("/api/u/loans", func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, "0b6f3c1e-1111-4222-8333-944445555666")
		c.Locals(helper.LocUserRole, "siswa")
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/api/public/books", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for _, path := range []string{"/api/u/loans", "/api/public/books"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	out := buf.String()
	assert.Contains(t, out, "GET /api/u/loans - 200")
	assert.Contains(t, out, "actor=siswa:0b6f3c1e-1111-4222-8333-944445555666")
	assert.Contains(t, out, "/api/public/books - 200")
	assert.Contains(t, out, "actor=-")
}
