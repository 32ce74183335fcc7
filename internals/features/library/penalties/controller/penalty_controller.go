package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"simpus_backend/internals/constants"
	"simpus_backend/internals/features/library/penalties/dto"
	"simpus_backend/internals/features/library/penalties/service"
	helper "simpus_backend/internals/helpers"
)

type PenaltyController struct {
	Svc *service.PenaltyService
	Log *zap.Logger
}

func NewPenaltyController(svc *service.PenaltyService, log *zap.Logger) *PenaltyController {
	if log == nil {
		log = zap.NewNop()
	}
	return &PenaltyController{Svc: svc, Log: log}
}

func (h *PenaltyController) fail(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case errors.Is(err, service.ErrPenaltyNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyPaid):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrGatewayDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
	default:
		h.Log.Error("[PENALTY] gagal", zap.String("path", c.Path()), zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}
}

func statusQuery(c *fiber.Ctx) (string, error) {
	s := strings.ToLower(strings.TrimSpace(c.Query("status")))
	switch s {
	case "", constants.PenaltyUnpaid, constants.PenaltyPaid:
		return s, nil
	}
	return "", fiber.NewError(fiber.StatusBadRequest, "status harus unpaid atau paid")
}

func (h *PenaltyController) list(c *fiber.Ctx, f service.ListFilter, msg string) error {
	paging := helper.ResolvePaging(c, 20, 100)
	f.Offset, f.Limit = paging.Offset, paging.Limit
	rows, total, err := h.Svc.List(c.UserContext(), f)
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]dto.PenaltyResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromRow(r))
	}
	return helper.JsonList(c, msg, out, helper.BuildPagination(total, paging))
}

// GET /api/u/penalties
func (h *PenaltyController) ListMine(c *fiber.Ctx) error {
	uid, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return h.fail(c, err)
	}
	status, err := statusQuery(c)
	if err != nil {
		return h.fail(c, err)
	}
	return h.list(c, service.ListFilter{UserID: &uid, Status: status}, "Daftar denda saya")
}

// GET /api/a/penalties?status=&member_id=
func (h *PenaltyController) ListAll(c *fiber.Ctx) error {
	status, err := statusQuery(c)
	if err != nil {
		return h.fail(c, err)
	}
	f := service.ListFilter{Status: status}
	if raw := strings.TrimSpace(c.Query("member_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "member_id tidak valid")
		}
		f.UserID = &id
	}
	return h.list(c, f, "Daftar denda")
}

// POST /api/a/penalties/:id/settle
func (h *PenaltyController) SettleCash(c *fiber.Ctx) error {
	staffID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	p, err := h.Svc.SettleCash(c.UserContext(), staffID, id)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonUpdated(c, "Denda lunas", p)
}

// POST /api/u/penalties/:id/pay
func (h *PenaltyController) Pay(c *fiber.Ctx) error {
	uid, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return h.fail(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	sess, err := h.Svc.StartPayment(c.UserContext(), uid, id)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonCreated(c, "Silakan lanjutkan pembayaran", sess)
}

// POST /api/payments/midtrans/notification
// Selain signature salah, balas 200 supaya Midtrans tidak retry terus.
func (h *PenaltyController) MidtransWebhook(c *fiber.Ctx) error {
	var n service.Notification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	p, err := h.Svc.HandleNotification(c.UserContext(), n)
	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		h.Log.Warn("[MIDTRANS] signature tidak valid", zap.String("order_id", n.OrderID))
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrGatewayDisabled):
		return h.fail(c, err)
	case errors.Is(err, service.ErrPenaltyNotFound), errors.Is(err, service.ErrAmountMismatch):
		h.Log.Warn("[MIDTRANS] notifikasi diabaikan", zap.String("order_id", n.OrderID), zap.Error(err))
		return c.JSON(fiber.Map{"status": "ignored", "reason": err.Error()})
	case err != nil:
		return h.fail(c, err)
	}

	if p == nil {
		return c.JSON(fiber.Map{"status": "ok", "transaction_status": n.TransactionStatus})
	}
	h.Log.Info("[MIDTRANS] denda lunas", zap.String("order_id", n.OrderID), zap.String("penalty_id", p.PenaltyID.String()))
	return c.JSON(fiber.Map{"status": "ok", "penalty_id": p.PenaltyID, "penalty_status": p.PenaltyStatus})
}
