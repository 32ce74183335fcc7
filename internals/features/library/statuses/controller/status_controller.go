package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"simpus_backend/internals/features/library/statuses/dto"
	"simpus_backend/internals/features/library/statuses/repository"
	helper "simpus_backend/internals/helpers"
)

type StatusController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewStatusController(db *gorm.DB, log *zap.Logger) *StatusController {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatusController{DB: db, Log: log}
}

// GET /api/public/statuses
func (h *StatusController) List(c *fiber.Ctx) error {
	rows, err := repository.List(c.UserContext(), h.DB)
	if err != nil {
		h.Log.Error("[STATUS] gagal ambil daftar", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil status")
	}
	out := make([]dto.StatusResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToStatusResponse(&rows[i]))
	}
	return helper.JsonOK(c, "Daftar status", out)
}

// PATCH /api/a/statuses/:id
// Nominal baru berlaku untuk denda yang dihitung sesudahnya; transaksi lama tidak dihitung ulang.
func (h *StatusController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if req.Empty() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada perubahan")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := repository.Update(c.UserContext(), h.DB, id, req.StatusName, req.StatusPenaltyAmount)
	switch {
	case errors.Is(err, repository.ErrStatusNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrStatusNameTaken):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case err != nil:
		h.Log.Error("[STATUS] gagal update", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui status")
	}
	h.Log.Info("[STATUS] diperbarui",
		zap.String("code", m.StatusCode),
		zap.Int64("penalty_amount", m.StatusPenaltyAmount),
	)
	return helper.JsonUpdated(c, "Status berhasil diperbarui", dto.ToStatusResponse(m))
}
