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
	"gorm.io/gorm"

	"simpus_backend/internals/constants"
	"simpus_backend/internals/databases/dbtest"
	"simpus_backend/internals/features/access"
	bookModel "simpus_backend/internals/features/library/books/model"
	catCtl "simpus_backend/internals/features/library/categories/controller"
	"simpus_backend/internals/features/library/categories/dto"
	"simpus_backend/internals/features/library/categories/model"
	catRoute "simpus_backend/internals/features/library/categories/route"
	helper "simpus_backend/internals/helpers"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t, &model.CategoryModel{}, &bookModel.BookModel{})

	ctl := catCtl.NewCategoryController(db, nil)
	app := fiber.New()
	catRoute.CategoryPublicRoutes(app.Group("/api/public"), ctl)
	catRoute.CategoryAdminRoutes(app.Group("/api/a", func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserRole, c.Get("X-Role"))
		return c.Next()
	}), ctl, access.NewRoleTable())
	return app, db
}

func send(t *testing.T, app *fiber.App, method, path, role string, body any) (int, json.RawMessage) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Role", role)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env.Data
}

func create(t *testing.T, app *fiber.App, name string) dto.CategoryResponse {
	t.Helper()
	code, data := send(t, app, fiber.MethodPost, "/api/a/categories", constants.RolePetugas, fiber.Map{"category_name": name})
	require.Equal(t, fiber.StatusCreated, code)
	var out dto.CategoryResponse
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestCreateCategorySlug(t *testing.T) {
	app, _ := setup(t)

	first := create(t, app, "  Ilmu   Komputer ")
	assert.Equal(t, "Ilmu Komputer", first.CategoryName)
	assert.Equal(t, "ilmu-komputer", first.CategorySlug)

	second := create(t, app, "Ilmu-Komputer!")
	assert.Equal(t, "ilmu-komputer-2", second.CategorySlug)

	code, _ := send(t, app, fiber.MethodPost, "/api/a/categories", constants.RolePetugas, fiber.Map{"category_name": "ilmu komputer"})
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = send(t, app, fiber.MethodPost, "/api/a/categories", constants.RolePetugas, fiber.Map{"category_name": ""})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = send(t, app, fiber.MethodPost, "/api/a/categories", constants.RoleSiswa, fiber.Map{"category_name": "Sejarah"})
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestRenameCategory(t *testing.T) {
	app, _ := setup(t)
	cat := create(t, app, "Sejarah")
	create(t, app, "Agama")

	code, data := send(t, app, fiber.MethodPatch, "/api/a/categories/"+cat.CategoryID.String(), constants.RolePetugas, fiber.Map{"category_name": "Sejarah Indonesia"})
	require.Equal(t, fiber.StatusOK, code)
	var out dto.CategoryResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "sejarah-indonesia", out.CategorySlug)

	code, _ = send(t, app, fiber.MethodPatch, "/api/a/categories/"+cat.CategoryID.String(), constants.RolePetugas, fiber.Map{"category_name": "Agama"})
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestDeleteCategoryKeepsBooks(t *testing.T) {
	app, db := setup(t)
	cat := create(t, app, "Fiksi")

	book := bookModel.BookModel{
		BookCategoryID: &cat.CategoryID,
		BookTitle:      "Ronggeng Dukuh Paruk", BookISBN: "9789792201963",
		BookAuthor: "Ahmad Tohari", BookPublisher: "Gramedia", BookYearPublished: 1982, BookCopyCount: 1,
	}
	require.NoError(t, db.Create(&book).Error)

	code, data := send(t, app, fiber.MethodGet, "/api/public/categories", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	var list []dto.CategoryResponse
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	require.NotNil(t, list[0].BookCount)
	assert.EqualValues(t, 1, *list[0].BookCount)

	path := "/api/a/categories/" + cat.CategoryID.String()
	code, _ = send(t, app, fiber.MethodDelete, path, constants.RolePetugas, nil)
	assert.Equal(t, fiber.StatusForbidden, code)
	code, _ = send(t, app, fiber.MethodDelete, path, constants.RoleSuperAdmin, nil)
	require.Equal(t, fiber.StatusOK, code)

	_, data = send(t, app, fiber.MethodGet, "/api/public/categories", "", nil)
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Empty(t, list)

	var reloaded bookModel.BookModel
	require.NoError(t, db.First(&reloaded, "book_id = ?", book.BookID).Error)
	require.NotNil(t, reloaded.BookCategoryID)
	assert.Equal(t, cat.CategoryID, *reloaded.BookCategoryID)

	code, _ = send(t, app, fiber.MethodPost, path+"/restore", constants.RoleSuperAdmin, nil)
	require.Equal(t, fiber.StatusOK, code)
	code, _ = send(t, app, fiber.MethodPost, path+"/restore", constants.RoleSuperAdmin, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}
