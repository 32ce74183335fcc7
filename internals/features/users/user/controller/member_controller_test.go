package controller_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"simpus_backend/internals/constants"
	"simpus_backend/internals/databases/dbtest"
	"simpus_backend/internals/features/access"
	statusModel "simpus_backend/internals/features/library/statuses/model"
	txModel "simpus_backend/internals/features/library/transactions/model"
	memberCtl "simpus_backend/internals/features/users/user/controller"
	"simpus_backend/internals/features/users/user/dto"
	"simpus_backend/internals/features/users/user/model"
	memberRoute "simpus_backend/internals/features/users/user/route"
	helper "simpus_backend/internals/helpers"
)

type fixture struct {
	app   *fiber.App
	db    *gorm.DB
	admin model.UserModel
	staff model.UserModel
	siti  model.UserModel
	budi  model.UserModel
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t, &model.UserModel{}, &model.UserDetailModel{}, &statusModel.StatusModel{}, &txModel.TransactionModel{})
	f := &fixture{db: db}

	f.admin = model.UserModel{UserName: "admin", FullName: "Kepala Perpus", Email: "admin@sekolah.id", Password: "x", Role: constants.RoleSuperAdmin}
	f.staff = model.UserModel{UserName: "petugas", FullName: "Bu Rina", Email: "rina@sekolah.id", Password: "x", Role: constants.RolePetugas}
	f.siti = model.UserModel{UserName: "siti", FullName: "Siti Aminah", Email: "siti@sekolah.id", Password: "x", Role: constants.RoleSiswa}
	f.budi = model.UserModel{UserName: "budi", FullName: "Budi Santoso", Email: "budi@sekolah.id", Password: "x", Role: constants.RoleSiswa}
	for _, u := range []*model.UserModel{&f.admin, &f.staff, &f.siti, &f.budi} {
		require.NoError(t, db.Create(u).Error)
	}
	class := "XI IPA 2"
	require.NoError(t, db.Create(&model.UserDetailModel{UserDetailUserID: f.siti.ID, UserDetailClass: &class}).Error)

	app := fiber.New()
	api := app.Group("/api/a", func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, c.Get("X-User"))
		c.Locals(helper.LocUserRole, c.Get("X-Role"))
		return c.Next()
	})
	memberRoute.MemberAdminRoutes(api, memberCtl.NewMemberController(db, nil), access.NewRoleTable())
	f.app = app
	return f
}

func (f *fixture) send(t *testing.T, method, path string, who model.UserModel, body any) (int, json.RawMessage) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", who.ID.String())
	req.Header.Set("X-Role", who.Role)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env.Data
}

func TestListMembers(t *testing.T) {
	f := setup(t)

	code, data := f.send(t, fiber.MethodGet, "/api/a/members?role=siswa", f.staff, nil)
	require.Equal(t, fiber.StatusOK, code)
	var list []dto.MemberResponse
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Len(t, list, 2)

	_, data = f.send(t, fiber.MethodGet, "/api/a/members?q=AMINAH", f.staff, nil)
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Class)
	assert.Equal(t, "XI IPA 2", *list[0].Class)
	assert.Equal(t, constants.MembershipActive, list[0].MembershipStatus)

	code, _ = f.send(t, fiber.MethodGet, "/api/a/members?role=guru", f.staff, nil)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = f.send(t, fiber.MethodGet, "/api/a/members", f.siti, nil)
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestUpdateMembership(t *testing.T) {
	f := setup(t)

	// budi belum punya baris detail
	path := "/api/a/members/" + f.budi.ID.String() + "/membership"
	code, data := f.send(t, fiber.MethodPatch, path, f.admin, fiber.Map{"membership_status": " Suspended "})
	require.Equal(t, fiber.StatusOK, code)
	var out dto.MemberResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, constants.MembershipSuspended, out.MembershipStatus)

	var d model.UserDetailModel
	require.NoError(t, f.db.First(&d, "user_detail_user_id = ?", f.budi.ID).Error)
	assert.Equal(t, constants.MembershipSuspended, d.UserDetailMembershipStatus)

	_, data = f.send(t, fiber.MethodGet, "/api/a/members?membership=suspended", f.staff, nil)
	var list []dto.MemberResponse
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, f.budi.ID, list[0].ID)

	code, _ = f.send(t, fiber.MethodPatch, path, f.admin, fiber.Map{"membership_status": "banned"})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = f.send(t, fiber.MethodPatch, path, f.staff, fiber.Map{"membership_status": "active"})
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestUpdateRole(t *testing.T) {
	f := setup(t)

	code, _ := f.send(t, fiber.MethodPatch, "/api/a/members/"+f.siti.ID.String()+"/role", f.admin, fiber.Map{"role": "petugas"})
	require.Equal(t, fiber.StatusOK, code)
	var u model.UserModel
	require.NoError(t, f.db.First(&u, "id = ?", f.siti.ID).Error)
	assert.Equal(t, constants.RolePetugas, u.Role)

	code, _ = f.send(t, fiber.MethodPatch, "/api/a/members/"+f.siti.ID.String()+"/role", f.admin, fiber.Map{"role": "kepala_sekolah"})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = f.send(t, fiber.MethodPatch, "/api/a/members/"+f.admin.ID.String()+"/role", f.admin, fiber.Map{"role": "siswa"})
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = f.send(t, fiber.MethodPatch, "/api/a/members/"+uuid.NewString()+"/role", f.admin, fiber.Map{"role": "siswa"})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestDeleteMemberWithLoan(t *testing.T) {
	f := setup(t)
	borrowed := statusModel.StatusModel{StatusCode: constants.StatusBorrowed, StatusName: "Konfirmasi Pinjam"}
	require.NoError(t, f.db.Create(&borrowed).Error)
	d := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	loan := txModel.TransactionModel{
		TransactionCode: "TRX-20240201-BBBB", TransactionBookID: uuid.New(), TransactionUserID: f.budi.ID,
		TransactionStatusID: borrowed.StatusID, TransactionBorrowDate: &d, TransactionDueDate: &d,
	}
	require.NoError(t, f.db.Create(&loan).Error)

	_, data := f.send(t, fiber.MethodGet, "/api/a/members/"+f.budi.ID.String(), f.staff, nil)
	var out dto.MemberResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.EqualValues(t, 1, out.OutstandingLoans)

	path := "/api/a/members/" + f.budi.ID.String()
	code, _ := f.send(t, fiber.MethodDelete, path, f.admin, nil)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = f.send(t, fiber.MethodDelete, "/api/a/members/"+f.siti.ID.String(), f.admin, nil)
	require.Equal(t, fiber.StatusOK, code)
	code, _ = f.send(t, fiber.MethodGet, "/api/a/members/"+f.siti.ID.String(), f.staff, nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = f.send(t, fiber.MethodPost, "/api/a/members/"+f.siti.ID.String()+"/restore", f.admin, nil)
	require.Equal(t, fiber.StatusOK, code)
	code, _ = f.send(t, fiber.MethodGet, "/api/a/members/"+f.siti.ID.String(), f.staff, nil)
	assert.Equal(t, fiber.StatusOK, code)
}
