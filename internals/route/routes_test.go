package routes

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"simpus_backend/internals/configs"
	database "simpus_backend/internals/databases"
	"simpus_backend/internals/databases/dbtest"
	"simpus_backend/internals/features/access"
	penaltyService "simpus_backend/internals/features/library/penalties/service"
	"simpus_backend/internals/features/library/transactions/events"
	"simpus_backend/internals/features/library/transactions/repository"
	loanService "simpus_backend/internals/features/library/transactions/service"
	authService "simpus_backend/internals/features/users/auth/service"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db := dbtest.Open(t, database.Models()...)
	checker := access.NewRoleTable()
	app := fiber.New()
	SetupRoutes(app, Deps{
		DB:        db,
		Log:       zap.NewNop(),
		Policy:    configs.DefaultLibraryPolicy(),
		Checker:   checker,
		Auth:      authService.NewAuthService(db, nil, zap.NewNop()),
		Loans:     loanService.NewLoanService(repository.NewGormStore(db), checker, events.Discard{}),
		Penalties: penaltyService.NewPenaltyService(db, nil, zap.NewNop()),
	})
	return app
}

func TestHealth(t *testing.T) {
	app := newApp(t)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "OK", body["status"])
}

func TestGroupsRequireToken(t *testing.T) {
	app := newApp(t)
	for _, path := range []string{"/api/a/books", "/api/u/loans", "/api/a/members"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/public/books", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
