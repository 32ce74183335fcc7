package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"simpus_backend/internals/features/library/categories/dto"
	"simpus_backend/internals/features/library/categories/repository"
	helper "simpus_backend/internals/helpers"
)

type CategoryController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewCategoryController(db *gorm.DB, log *zap.Logger) *CategoryController {
	if log == nil {
		log = zap.NewNop()
	}
	return &CategoryController{DB: db, Log: log}
}

func (h *CategoryController) fail(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case errors.Is(err, repository.ErrCategoryNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrCategoryExists):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	default:
		h.Log.Error("[CATEGORY] gagal", zap.String("path", c.Path()), zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}
}

// GET /api/public/categories?q=&page=&per_page=
// GET /api/a/categories?include_deleted=true
func (h *CategoryController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 50, 200)
	includeDeleted := false
	if c.Locals(helper.LocUserRole) != nil {
		includeDeleted, _ = strconv.ParseBool(c.Query("include_deleted", "false"))
	}

	rows, total, err := repository.List(c.UserContext(), h.DB, c.Query("q"), includeDeleted, paging.Offset, paging.Limit)
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]dto.CategoryResponse, 0, len(rows))
	for i := range rows {
		r := dto.ToCategoryResponse(&rows[i].CategoryModel)
		n := rows[i].BookCount
		r.BookCount = &n
		out = append(out, r)
	}
	return helper.JsonList(c, "Daftar kategori", out, helper.BuildPagination(total, paging))
}

// GET /api/a/categories/:id
func (h *CategoryController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	m, err := repository.FindByID(c.UserContext(), h.DB, id, false)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonOK(c, "Detail kategori", dto.ToCategoryResponse(m))
}

// POST /api/a/categories
func (h *CategoryController) Create(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := repository.Create(c.UserContext(), h.DB, req.CategoryName)
	if err != nil {
		return h.fail(c, err)
	}
	h.Log.Info("[CATEGORY] dibuat", zap.String("slug", m.CategorySlug))
	return helper.JsonCreated(c, "Kategori berhasil dibuat", dto.ToCategoryResponse(m))
}

// PATCH /api/a/categories/:id
func (h *CategoryController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := repository.Rename(c.UserContext(), h.DB, id, req.CategoryName)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonUpdated(c, "Kategori berhasil diperbarui", dto.ToCategoryResponse(m))
}

// DELETE /api/a/categories/:id (soft)
func (h *CategoryController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	if err := repository.SoftDelete(c.UserContext(), h.DB, id); err != nil {
		return h.fail(c, err)
	}
	return helper.JsonDeleted(c, "Kategori berhasil dihapus", fiber.Map{"category_id": id})
}

// POST /api/a/categories/:id/restore
func (h *CategoryController) Restore(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	m, err := repository.Restore(c.UserContext(), h.DB, id)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonUpdated(c, "Kategori berhasil dipulihkan", dto.ToCategoryResponse(m))
}
