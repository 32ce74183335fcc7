package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"simpus_backend/internals/configs"
	"simpus_backend/internals/features/library/settings/dto"
	"simpus_backend/internals/features/library/settings/repository"
	helper "simpus_backend/internals/helpers"
)

type SettingController struct {
	DB     *gorm.DB
	Log    *zap.Logger
	Policy configs.LibraryPolicy
}

func NewSettingController(db *gorm.DB, policy configs.LibraryPolicy, log *zap.Logger) *SettingController {
	if log == nil {
		log = zap.NewNop()
	}
	return &SettingController{DB: db, Log: log, Policy: policy}
}

// GET /api/a/settings
// Kalau belum ada baris, kembalikan default dari env.
func (h *SettingController) Get(c *fiber.Ctx) error {
	m, err := repository.Get(c.UserContext(), h.DB)
	if errors.Is(err, repository.ErrSettingMissing) {
		return helper.JsonOK(c, "Pengaturan default", fiber.Map{
			"setting_library_name": "",
			"setting_limit_day":    h.Policy.LoanPeriodDays,
			"is_default":           true,
		})
	}
	if err != nil {
		h.Log.Error("[SETTING] gagal ambil", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pengaturan")
	}
	return helper.JsonOK(c, "Pengaturan perpustakaan", m)
}

// PUT /api/a/settings
func (h *SettingController) Put(c *fiber.Ctx) error {
	var req dto.SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := repository.Upsert(c.UserContext(), h.DB, req.ApplyToModel)
	if err != nil {
		h.Log.Error("[SETTING] gagal simpan", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan pengaturan")
	}
	h.Log.Info("[SETTING] diperbarui", zap.Int("limit_day", m.SettingLimitDay))
	return helper.JsonUpdated(c, "Pengaturan tersimpan", m)
}
