package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"simpus_backend/internals/constants"
	"simpus_backend/internals/features/users/user/dto"
	"simpus_backend/internals/features/users/user/model"
	helper "simpus_backend/internals/helpers"
)

var (
	errMemberNotFound = fiber.NewError(fiber.StatusNotFound, "Anggota tidak ditemukan")
	errHasLoans       = fiber.NewError(fiber.StatusConflict, "Anggota masih memiliki pinjaman aktif")
)

type MemberController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewMemberController(db *gorm.DB, log *zap.Logger) *MemberController {
	if log == nil {
		log = zap.NewNop()
	}
	return &MemberController{DB: db, Log: log}
}

func (h *MemberController) fail(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	h.Log.Error("[MEMBER] gagal", zap.String("path", c.Path()), zap.Error(err))
	return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
}

func (h *MemberController) load(c *fiber.Ctx, unscoped bool) (*model.UserModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	tx := h.DB.WithContext(c.UserContext())
	if unscoped {
		tx = tx.Unscoped()
	}
	var u model.UserModel
	if err := tx.Preload("Detail").First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errMemberNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (h *MemberController) outstanding(c *fiber.Ctx, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		UserID uuid.UUID `gorm:"column:user_id"`
		N      int64     `gorm:"column:n"`
	}
	err := h.DB.WithContext(c.UserContext()).
		Table("transactions t").
		Select("t.transaction_user_id AS user_id, COUNT(*) AS n").
		Joins("JOIN statuses s ON s.status_id = t.transaction_status_id").
		Where("t.transaction_user_id IN ? AND t.transaction_deleted_at IS NULL AND t.transaction_return_date IS NULL", ids).
		Where("s.status_code IN ?", constants.OutstandingStatusCodes).
		Group("t.transaction_user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.UserID] = r.N
	}
	return out, nil
}

// GET /api/a/members?q=&role=&membership=&include_deleted=
func (h *MemberController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	tx := h.DB.WithContext(c.UserContext()).Model(&model.UserModel{})
	if c.QueryBool("include_deleted") {
		tx = tx.Unscoped()
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(users.user_name) LIKE ? OR LOWER(users.full_name) LIKE ? OR LOWER(users.email) LIKE ?", like, like, like)
	}
	if role := strings.ToLower(strings.TrimSpace(c.Query("role"))); role != "" {
		if !constants.IsKnownRole(role) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Role tidak dikenal")
		}
		tx = tx.Where("users.role = ?", role)
	}
	if ms := strings.ToLower(strings.TrimSpace(c.Query("membership"))); ms != "" {
		if !model.IsValidMembership(ms) {
			return helper.JsonError(c, fiber.StatusBadRequest, "membership harus active, suspended, atau expired")
		}
		tx = tx.Joins("JOIN user_details d ON d.user_detail_user_id = users.id").
			Where("d.user_detail_membership_status = ?", ms)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return h.fail(c, err)
	}
	var users []model.UserModel
	if err := tx.Preload("Detail").
		Order("users.created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&users).Error; err != nil {
		return h.fail(c, err)
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	counts, err := h.outstanding(c, ids)
	if err != nil {
		return h.fail(c, err)
	}

	out := make([]dto.MemberResponse, 0, len(users))
	for i := range users {
		r := dto.FromModel(&users[i])
		r.OutstandingLoans = counts[users[i].ID]
		out = append(out, r)
	}
	return helper.JsonList(c, "Daftar anggota", out, helper.BuildPagination(total, paging))
}

// GET /api/a/members/:id
func (h *MemberController) Get(c *fiber.Ctx) error {
	u, err := h.load(c, c.QueryBool("include_deleted"))
	if err != nil {
		return h.fail(c, err)
	}
	counts, err := h.outstanding(c, []uuid.UUID{u.ID})
	if err != nil {
		return h.fail(c, err)
	}
	r := dto.FromModel(u)
	r.OutstandingLoans = counts[u.ID]
	return helper.JsonOK(c, "Detail anggota", r)
}

// PATCH /api/a/members/:id/membership
// Baris detail dibuat bila belum ada.
func (h *MemberController) UpdateMembership(c *fiber.Ctx) error {
	var req dto.MembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	u, err := h.load(c, false)
	if err != nil {
		return h.fail(c, err)
	}

	if u.Detail == nil {
		u.Detail = &model.UserDetailModel{UserDetailUserID: u.ID, UserDetailMembershipStatus: req.MembershipStatus}
		err = h.DB.WithContext(c.UserContext()).Create(u.Detail).Error
	} else {
		err = h.DB.WithContext(c.UserContext()).Model(u.Detail).
			Update("user_detail_membership_status", req.MembershipStatus).Error
		u.Detail.UserDetailMembershipStatus = req.MembershipStatus
	}
	if err != nil {
		return h.fail(c, err)
	}

	h.Log.Info("[MEMBER] status keanggotaan diubah",
		zap.String("user_id", u.ID.String()),
		zap.String("membership_status", req.MembershipStatus),
	)
	return helper.JsonUpdated(c, "Status keanggotaan diperbarui", dto.FromModel(u))
}

// PATCH /api/a/members/:id/role
func (h *MemberController) UpdateRole(c *fiber.Ctx) error {
	var req dto.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if !constants.IsKnownRole(req.Role) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Role tidak dikenal")
	}

	u, err := h.load(c, false)
	if err != nil {
		return h.fail(c, err)
	}
	if self, err := helper.GetUserIDFromToken(c); err == nil && self == u.ID {
		return helper.JsonError(c, fiber.StatusForbidden, "Tidak dapat mengubah role sendiri")
	}

	if err := h.DB.WithContext(c.UserContext()).Model(&model.UserModel{}).Where("id = ?", u.ID).Update("role", req.Role).Error; err != nil {
		return h.fail(c, err)
	}
	h.Log.Info("[MEMBER] role diubah", zap.String("user_id", u.ID.String()), zap.String("role", req.Role))
	u.Role = req.Role
	return helper.JsonUpdated(c, "Role diperbarui", dto.FromModel(u))
}

// DELETE /api/a/members/:id
func (h *MemberController) Delete(c *fiber.Ctx) error {
	u, err := h.load(c, false)
	if err != nil {
		return h.fail(c, err)
	}
	counts, err := h.outstanding(c, []uuid.UUID{u.ID})
	if err != nil {
		return h.fail(c, err)
	}
	if counts[u.ID] > 0 {
		return h.fail(c, errHasLoans)
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(&model.UserModel{}, "id = ?", u.ID).Error; err != nil {
		return h.fail(c, err)
	}
	return helper.JsonDeleted(c, "Anggota dihapus", fiber.Map{"id": u.ID})
}

// POST /api/a/members/:id/restore
func (h *MemberController) Restore(c *fiber.Ctx) error {
	u, err := h.load(c, true)
	if err != nil {
		return h.fail(c, err)
	}
	if !u.DeletedAt.Valid {
		return h.fail(c, errMemberNotFound)
	}
	if err := h.DB.WithContext(c.UserContext()).Unscoped().Model(&model.UserModel{}).Where("id = ?", u.ID).Update("deleted_at", nil).Error; err != nil {
		return h.fail(c, err)
	}
	u.DeletedAt = gorm.DeletedAt{}
	return helper.JsonOK(c, "Anggota dipulihkan", dto.FromModel(u))
}
