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
	bookCtl "simpus_backend/internals/features/library/books/controller"
	"simpus_backend/internals/features/library/books/dto"
	"simpus_backend/internals/features/library/books/model"
	bookRoute "simpus_backend/internals/features/library/books/route"
	categoryModel "simpus_backend/internals/features/library/categories/model"
	statusModel "simpus_backend/internals/features/library/statuses/model"
	txModel "simpus_backend/internals/features/library/transactions/model"
	helper "simpus_backend/internals/helpers"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t,
		&categoryModel.CategoryModel{},
		&model.BookModel{},
		&statusModel.StatusModel{},
		&txModel.TransactionModel{},
	)
	ctl := bookCtl.NewBookController(db, nil)
	app := fiber.New()
	bookRoute.BookPublicRoutes(app.Group("/api/public"), ctl)
	bookRoute.BookAdminRoutes(app.Group("/api/a", func(c *fiber.Ctx) error {
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

func bookBody(isbn string) fiber.Map {
	return fiber.Map{
		"book_title":          "Cantik Itu Luka",
		"book_isbn":           isbn,
		"book_author":         "Eka Kurniawan",
		"book_publisher":      "Gramedia",
		"book_year_published": 2002,
		"book_copy_count":     4,
		"book_type":           "Fiction",
	}
}

func TestCreateBook(t *testing.T) {
	app, db := setup(t)
	cat := categoryModel.CategoryModel{CategoryName: "Novel", CategorySlug: "novel"}
	require.NoError(t, db.Create(&cat).Error)

	body := bookBody("978-602-03-1258-7")
	body["book_category_id"] = cat.CategoryID.String()
	code, data := send(t, app, fiber.MethodPost, "/api/a/books", constants.RolePetugas, body)
	require.Equal(t, fiber.StatusCreated, code)

	var out dto.BookResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "9786020312587", out.BookISBN)
	assert.Equal(t, model.BookTypeFiction, out.BookType)
	require.NotNil(t, out.CategoryName)
	assert.Equal(t, "Novel", *out.CategoryName)

	code, _ = send(t, app, fiber.MethodPost, "/api/a/books", constants.RolePetugas, bookBody("9786020312587"))
	assert.Equal(t, fiber.StatusConflict, code)

	missing := bookBody("9786020312588")
	missing["book_category_id"] = uuid.NewString()
	code, _ = send(t, app, fiber.MethodPost, "/api/a/books", constants.RolePetugas, missing)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	bad := bookBody("9786020312589")
	bad["book_copy_count"] = -1
	code, _ = send(t, app, fiber.MethodPost, "/api/a/books", constants.RolePetugas, bad)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = send(t, app, fiber.MethodPost, "/api/a/books", constants.RoleSiswa, bookBody("9786020312590"))
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestListAndSearchBooks(t *testing.T) {
	app, db := setup(t)
	require.NoError(t, db.Create(&[]model.BookModel{
		{BookTitle: "Laut Bercerita", BookISBN: "9786024246945", BookAuthor: "Leila S. Chudori", BookPublisher: "KPG", BookYearPublished: 2017, BookCopyCount: 2},
		{BookTitle: "Pulang", BookISBN: "9789799105158", BookAuthor: "Leila S. Chudori", BookPublisher: "KPG", BookYearPublished: 2012, BookCopyCount: 0},
		{BookTitle: "Negeri 5 Menara", BookISBN: "9789792248616", BookAuthor: "Ahmad Fuadi", BookPublisher: "Gramedia", BookYearPublished: 2009, BookCopyCount: 1, BookType: model.BookTypeTextbook},
	}).Error)

	var list []dto.BookResponse
	code, data := send(t, app, fiber.MethodGet, "/api/public/books?q=leila", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Len(t, list, 2)

	_, data = send(t, app, fiber.MethodGet, "/api/public/books?q=leila&available=true", "", nil)
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Laut Bercerita", list[0].BookTitle)

	_, data = send(t, app, fiber.MethodGet, "/api/public/books?sort=-year", "", nil)
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 3)
	assert.Equal(t, 2017, list[0].BookYearPublished)

	_, data = send(t, app, fiber.MethodGet, "/api/public/books?type=textbook", "", nil)
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)

	code, _ = send(t, app, fiber.MethodGet, "/api/public/books?type=komik", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestUpdateBook(t *testing.T) {
	app, db := setup(t)
	b := model.BookModel{BookTitle: "Gadis Kretek", BookISBN: "9789799104281", BookAuthor: "Ratih Kumala", BookPublisher: "Gramedia", BookYearPublished: 2012, BookCopyCount: 1}
	require.NoError(t, db.Create(&b).Error)

	code, data := send(t, app, fiber.MethodPatch, "/api/a/books/"+b.BookID.String(), constants.RolePetugas, fiber.Map{
		"book_copy_count":     5,
		"book_shelf_location": " R-3 ",
	})
	require.Equal(t, fiber.StatusOK, code)
	var out dto.BookResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 5, out.BookCopyCount)
	assert.Equal(t, "Gadis Kretek", out.BookTitle)
	require.NotNil(t, out.BookShelfLocation)
	assert.Equal(t, "R-3", *out.BookShelfLocation)

	code, _ = send(t, app, fiber.MethodPatch, "/api/a/books/"+uuid.NewString(), constants.RolePetugas, fiber.Map{"book_copy_count": 1})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestDeleteBookOnLoan(t *testing.T) {
	app, db := setup(t)
	b := model.BookModel{BookTitle: "Saman", BookISBN: "9789799023179", BookAuthor: "Ayu Utami", BookPublisher: "KPG", BookYearPublished: 1998, BookCopyCount: 1}
	require.NoError(t, db.Create(&b).Error)
	borrowed := statusModel.StatusModel{StatusCode: constants.StatusBorrowed, StatusName: "Konfirmasi Pinjam"}
	returned := statusModel.StatusModel{StatusCode: constants.StatusReturned, StatusName: "Dikembalikan"}
	require.NoError(t, db.Create(&borrowed).Error)
	require.NoError(t, db.Create(&returned).Error)

	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := txModel.TransactionModel{
		TransactionCode: "TRX-1", TransactionBookID: b.BookID, TransactionUserID: uuid.New(),
		TransactionStatusID: borrowed.StatusID, TransactionBorrowDate: &d, TransactionDueDate: &d,
	}
	require.NoError(t, db.Create(&loan).Error)

	path := "/api/a/books/" + b.BookID.String()
	code, _ := send(t, app, fiber.MethodDelete, path, constants.RoleSuperAdmin, nil)
	assert.Equal(t, fiber.StatusConflict, code)

	require.NoError(t, db.Model(&loan).Updates(map[string]any{
		"transaction_status_id":   returned.StatusID,
		"transaction_return_date": d,
	}).Error)

	code, _ = send(t, app, fiber.MethodDelete, path, constants.RoleSuperAdmin, nil)
	require.Equal(t, fiber.StatusOK, code)
	code, _ = send(t, app, fiber.MethodGet, "/api/public/books/"+b.BookID.String(), "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = send(t, app, fiber.MethodPost, path+"/restore", constants.RoleSuperAdmin, nil)
	require.Equal(t, fiber.StatusOK, code)
	code, _ = send(t, app, fiber.MethodGet, "/api/public/books/"+b.BookID.String(), "", nil)
	assert.Equal(t, fiber.StatusOK, code)
}
