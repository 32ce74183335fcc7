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

	"simpus_backend/internals/constants"
	"simpus_backend/internals/databases/dbtest"
	"simpus_backend/internals/features/access"
	statusCtl "simpus_backend/internals/features/library/statuses/controller"
	"simpus_backend/internals/features/library/statuses/dto"
	"simpus_backend/internals/features/library/statuses/model"
	statusRoute "simpus_backend/internals/features/library/statuses/route"
	helper "simpus_backend/internals/helpers"
)

func patch(t *testing.T, app *fiber.App, path, role string, body any) (int, dto.StatusResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPatch, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Role", role)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env struct {
		Data dto.StatusResponse `json:"data"`
	}
	b, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(b, &env)
	return resp.StatusCode, env.Data
}

func TestUpdatePenaltyAmount(t *testing.T) {
	db := dbtest.Open(t, &model.StatusModel{})
	overdue := model.StatusModel{StatusCode: constants.StatusOverdue, StatusName: "Terlambat", StatusPenaltyAmount: 5000}
	lost := model.StatusModel{StatusCode: constants.StatusLost, StatusName: "Hilang", StatusPenaltyAmount: 100000}
	require.NoError(t, db.Create(&overdue).Error)
	require.NoError(t, db.Create(&lost).Error)

	ctl := statusCtl.NewStatusController(db, nil)
	app := fiber.New()
	statusRoute.StatusPublicRoutes(app.Group("/api/public"), ctl)
	statusRoute.StatusAdminRoutes(app.Group("/api/a", func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserRole, c.Get("X-Role"))
		return c.Next()
	}), ctl, access.NewRoleTable())

	path := "/api/a/statuses/" + overdue.StatusID.String()

	code, _ := patch(t, app, path, constants.RolePetugas, fiber.Map{"status_penalty_amount": 1000})
	assert.Equal(t, fiber.StatusForbidden, code)

	code, out := patch(t, app, path, constants.RoleKetuaPerpustakaan, fiber.Map{"status_penalty_amount": 7500})
	require.Equal(t, fiber.StatusOK, code)
	assert.EqualValues(t, 7500, out.StatusPenaltyAmount)
	assert.Equal(t, constants.StatusOverdue, out.StatusCode)

	code, _ = patch(t, app, path, constants.RoleKetuaPerpustakaan, fiber.Map{"status_penalty_amount": -1})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = patch(t, app, path, constants.RoleKetuaPerpustakaan, fiber.Map{"status_name": "Hilang"})
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = patch(t, app, path, constants.RoleKetuaPerpustakaan, fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, code)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/public/statuses", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
