package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"simpus_backend/internals/features/library/books/dto"
	"simpus_backend/internals/features/library/books/model"
	"simpus_backend/internals/features/library/books/repository"
	helper "simpus_backend/internals/helpers"
)

type BookController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewBookController(db *gorm.DB, log *zap.Logger) *BookController {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookController{DB: db, Log: log}
}

func (h *BookController) fail(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case errors.Is(err, repository.ErrBookNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrISBNTaken), errors.Is(err, repository.ErrBookOnLoan):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrCategoryMissing):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		h.Log.Error("[BOOK] gagal", zap.String("path", c.Path()), zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}
}

func rowResponse(r *repository.BookRow) dto.BookResponse {
	out := dto.ToBookResponse(&r.BookModel)
	out.CategoryName = r.CategoryName
	return out
}

// =========================================================
// LIST - GET /api/public/books
// ?q=&category_id=&type=&available=true&sort=title|-title|year|-year|newest|author
// =========================================================
func (h *BookController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)
	q := repository.ListQuery{
		Q:      c.Query("q"),
		Type:   strings.ToLower(strings.TrimSpace(c.Query("type"))),
		Sort:   strings.TrimSpace(c.Query("sort")),
		Offset: paging.Offset,
		Limit:  paging.Limit,
	}
	if q.Type != "" && !validType(q.Type) {
		return helper.JsonError(c, fiber.StatusBadRequest, "type tidak valid")
	}
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "category_id tidak valid")
		}
		q.CategoryID = &id
	}
	q.AvailableOnly, _ = strconv.ParseBool(c.Query("available", "false"))
	if c.Locals(helper.LocUserRole) != nil {
		q.IncludeDeleted, _ = strconv.ParseBool(c.Query("include_deleted", "false"))
	}

	rows, total, err := repository.List(c.UserContext(), h.DB, q)
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]dto.BookResponse, 0, len(rows))
	for i := range rows {
		out = append(out, rowResponse(&rows[i]))
	}
	return helper.JsonList(c, "Daftar buku", out, helper.BuildPagination(total, paging))
}

func validType(t string) bool {
	for _, v := range model.BookTypes {
		if v == t {
			return true
		}
	}
	return false
}

// GET /api/public/books/:id
func (h *BookController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	row, err := repository.FindByID(c.UserContext(), h.DB, id, false)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonOK(c, "Detail buku", rowResponse(row))
}

// POST /api/a/books
func (h *BookController) Create(c *fiber.Ctx) error {
	var req dto.BookCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := repository.Create(c.UserContext(), h.DB, m); err != nil {
		return h.fail(c, err)
	}
	h.Log.Info("[BOOK] ditambahkan", zap.String("isbn", m.BookISBN), zap.Int("copies", m.BookCopyCount))
	return h.respond(c, m.BookID, "Buku berhasil ditambahkan", true)
}

// PATCH /api/a/books/:id
func (h *BookController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var req dto.BookUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	if _, err := repository.Update(c.UserContext(), h.DB, id, req.ApplyToModel); err != nil {
		return h.fail(c, err)
	}
	return h.respond(c, id, "Buku berhasil diperbarui", false)
}

// DELETE /api/a/books/:id (soft)
func (h *BookController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	if err := repository.SoftDelete(c.UserContext(), h.DB, id); err != nil {
		return h.fail(c, err)
	}
	return helper.JsonDeleted(c, "Buku berhasil dihapus", fiber.Map{"book_id": id})
}

// POST /api/a/books/:id/restore
func (h *BookController) Restore(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	if err := repository.Restore(c.UserContext(), h.DB, id); err != nil {
		return h.fail(c, err)
	}
	return h.respond(c, id, "Buku berhasil dipulihkan", false)
}

func (h *BookController) respond(c *fiber.Ctx, id uuid.UUID, msg string, created bool) error {
	row, err := repository.FindByID(c.UserContext(), h.DB, id, false)
	if err != nil {
		return h.fail(c, err)
	}
	if created {
		return helper.JsonCreated(c, msg, rowResponse(row))
	}
	return helper.JsonUpdated(c, msg, rowResponse(row))
}
