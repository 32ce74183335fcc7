package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"simpus_backend/internals/configs"
	"simpus_backend/internals/constants"
	"simpus_backend/internals/databases/dbtest"
	"simpus_backend/internals/features/access"
	authModel "simpus_backend/internals/features/users/auth/model"
	authRepo "simpus_backend/internals/features/users/auth/repository"
	authService "simpus_backend/internals/features/users/auth/service"
	userModel "simpus_backend/internals/features/users/user/model"
	helper "simpus_backend/internals/helpers"
)

func setup(t *testing.T) (*gorm.DB, *fiber.App) {
	t.Helper()
	configs.JWTSecret = "rahasia-test"
	t.Cleanup(func() { configs.JWTSecret = "" })

	db := dbtest.Open(t, &userModel.UserModel{}, &authModel.TokenBlacklistModel{})
	app := fiber.New()
	checker := access.NewRoleTable()

	app.Get("/me", AuthMiddleware(db, nil), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": c.Locals(helper.LocUserID), "role": helper.GetUserRole(c)})
	})
	app.Post("/loans", AuthMiddleware(db, nil), RequireAction(checker, access.ActionLoanCreate), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	app.Get("/staff-only", AuthMiddleware(db, nil),
		OnlyRolesSlice(constants.RoleErrorStaff("melihat data"), constants.StaffAndAbove),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return db, app
}

func createUser(t *testing.T, db *gorm.DB, name, role string) (userModel.UserModel, string) {
	t.Helper()
	u := userModel.UserModel{UserName: name, Email: name + "@x.id", Password: "x", Role: role, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	tok, err := authService.IssueAccessToken(u, time.Now())
	require.NoError(t, err)
	return u, tok.AccessToken
}

func do(t *testing.T, app *fiber.App, method, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	db, app := setup(t)
	_, tok := createUser(t, db, "siti", constants.RoleSiswa)

	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, "GET", "/me", ""))
	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, "GET", "/me", "bukan.jwt.valid"))
	assert.Equal(t, fiber.StatusOK, do(t, app, "GET", "/me", tok))

	require.NoError(t, authRepo.BlacklistToken(context.Background(), db, tok, nil, time.Hour))
	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, "GET", "/me", tok))
}

func TestAuthMiddlewareRejectsInactiveUser(t *testing.T) {
	db, app := setup(t)
	u, tok := createUser(t, db, "budi", constants.RoleSiswa)
	require.NoError(t, db.Model(&userModel.UserModel{}).Where("id = ?", u.ID).Update("is_active", false).Error)

	assert.Equal(t, fiber.StatusForbidden, do(t, app, "GET", "/me", tok))
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	db, app := setup(t)
	u := userModel.UserModel{UserName: "lama", Email: "lama@x.id", Password: "x", IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	old, err := authService.IssueAccessToken(u, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, "GET", "/me", old.AccessToken))
}

func TestRequireActionAndOnlyRoles(t *testing.T) {
	db, app := setup(t)
	_, member := createUser(t, db, "siti", constants.RoleSiswa)
	_, staff := createUser(t, db, "petugas", constants.RolePetugas)

	assert.Equal(t, fiber.StatusForbidden, do(t, app, "POST", "/loans", member))
	assert.Equal(t, fiber.StatusCreated, do(t, app, "POST", "/loans", staff))

	assert.Equal(t, fiber.StatusForbidden, do(t, app, "GET", "/staff-only", member))
	assert.Equal(t, fiber.StatusOK, do(t, app, "GET", "/staff-only", staff))
}
