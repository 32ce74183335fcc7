package controller_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpus_backend/internals/configs"
	"simpus_backend/internals/constants"
	"simpus_backend/internals/databases/dbtest"
	"simpus_backend/internals/features/access"
	settingCtl "simpus_backend/internals/features/library/settings/controller"
	"simpus_backend/internals/features/library/settings/model"
	settingRoute "simpus_backend/internals/features/library/settings/route"
	helper "simpus_backend/internals/helpers"
)

type settingBody struct {
	SettingLibraryName string `json:"setting_library_name"`
	SettingLimitDay    int    `json:"setting_limit_day"`
	IsDefault          bool   `json:"is_default"`
}

func call(t *testing.T, app *fiber.App, method, role string, body any) (int, settingBody) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/a/settings", rdr)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Role", role)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env struct {
		Data settingBody `json:"data"`
	}
	b, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(b, &env)
	return resp.StatusCode, env.Data
}

func TestSettingsGetPut(t *testing.T) {
	db := dbtest.Open(t, &model.SettingModel{})
	policy := configs.DefaultLibraryPolicy()
	policy.LoanPeriodDays = 10

	app := fiber.New()
	settingRoute.SettingAdminRoutes(app.Group("/api/a", func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserRole, c.Get("X-Role"))
		return c.Next()
	}), settingCtl.NewSettingController(db, policy, nil), access.NewRoleTable())

	code, got := call(t, app, fiber.MethodGet, constants.RolePetugas, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.True(t, got.IsDefault)
	assert.Equal(t, 10, got.SettingLimitDay)

	put := fiber.Map{"setting_library_name": "Perpustakaan SMA 1", "setting_limit_day": 14}
	code, _ = call(t, app, fiber.MethodPut, constants.RolePetugas, put)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, got = call(t, app, fiber.MethodPut, constants.RoleSuperAdmin, put)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 14, got.SettingLimitDay)

	put["setting_limit_day"] = 21
	_, _ = call(t, app, fiber.MethodPut, constants.RoleSuperAdmin, put)
	var n int64
	require.NoError(t, db.Model(&model.SettingModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	code, got = call(t, app, fiber.MethodGet, constants.RolePetugas, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.False(t, got.IsDefault)
	assert.Equal(t, 21, got.SettingLimitDay)

	put["setting_limit_day"] = 0
	code, _ = call(t, app, fiber.MethodPut, constants.RoleSuperAdmin, put)
	assert.Equal(t, fiber.StatusBadRequest, code)
}
