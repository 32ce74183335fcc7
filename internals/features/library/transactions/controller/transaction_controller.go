package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"simpus_backend/internals/features/library/transactions/dto"
	"simpus_backend/internals/features/library/transactions/repository"
	"simpus_backend/internals/features/library/transactions/service"
	helper "simpus_backend/internals/helpers"
	"simpus_backend/internals/helpers/dbtime"
)

type TransactionController struct {
	DB  *gorm.DB
	Svc *service.LoanService
	Log *zap.Logger
	Loc *time.Location
	Now func() time.Time
}

func NewTransactionController(db *gorm.DB, svc *service.LoanService, loc *time.Location, log *zap.Logger) *TransactionController {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionController{DB: db, Svc: svc, Log: log, Loc: loc, Now: time.Now}
}

// today memakai zona waktu perpustakaan dari locals request, default tc.Loc.
func (tc *TransactionController) today(c *fiber.Ctx) time.Time {
	return dbtime.TodayIn(c, tc.Now(), tc.Loc)
}

// actorFrom membangun Actor dari locals yang diisi AuthMiddleware.
func actorFrom(c *fiber.Ctx) (service.Actor, error) {
	uid, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{UserID: uid, Role: helper.GetUserRole(c)}, nil
}

// writeLoanError: satu-satunya tempat pemetaan error engine → HTTP.
func (tc *TransactionController) writeLoanError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Transaksi tidak ditemukan")
	case errors.Is(err, service.ErrInvalidStateTransition),
		errors.Is(err, service.ErrNoCopyAvailable),
		errors.Is(err, repository.ErrStillOutstanding):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrMembershipInactive):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrValidation), errors.Is(err, dbtime.ErrInvalidDate):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	default:
		tc.Log.Error("[LOAN] error tak terduga", zap.String("path", c.Path()), zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}
}

func (tc *TransactionController) respondRow(c *fiber.Ctx, id uuid.UUID, msg string, created bool) error {
	row, err := repository.GetTransactionRow(c.UserContext(), tc.DB, id, false)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	if created {
		return helper.JsonCreated(c, msg, rowResponse(*row))
	}
	return helper.JsonUpdated(c, msg, rowResponse(*row))
}

func rowResponse(r repository.Row) dto.TransactionResponse {
	out := dto.FromModel(r.TransactionModel)
	out.StatusCode = r.StatusCode
	out.StatusName = r.StatusName
	out.BookTitle = r.BookTitle
	out.MemberName = r.MemberName
	return out
}

// POST /api/a/transactions
func (tc *TransactionController) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return tc.writeLoanError(c, err)
	}

	var req dto.CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	borrow, err := dto.ParseOptionalDate(req.BorrowDate)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	if borrow.IsZero() {
		borrow = tc.today(c)
	}

	loan, err := tc.Svc.CreateLoan(c.UserContext(), actor, service.CreateLoanInput{
		BookID:         uuid.MustParse(req.BookID),
		MemberID:       uuid.MustParse(req.MemberID),
		BorrowDate:     borrow,
		LoanPeriodDays: req.LoanPeriodDays,
	})
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	return tc.respondRow(c, loan.TransactionID, "Peminjaman berhasil dicatat", true)
}

// POST /api/a/transactions/:id/return
func (tc *TransactionController) Return(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return tc.writeLoanError(c, err)
	}

	var req dto.ReturnRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
		}
	}
	ret, err := dto.ParseOptionalDate(req.ReturnDate)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	if ret.IsZero() {
		ret = tc.today(c)
	}

	loan, err := tc.Svc.RecordReturn(c.UserContext(), actor, id, ret)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	return tc.respondRow(c, loan.TransactionID, "Pengembalian berhasil dicatat", false)
}

// POST /api/a/transactions/:id/lost
func (tc *TransactionController) MarkLost(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	loan, err := tc.Svc.MarkLost(c.UserContext(), actor, id)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	return tc.respondRow(c, loan.TransactionID, "Buku ditandai hilang", false)
}

// POST /api/a/transactions/:id/damaged
func (tc *TransactionController) MarkDamaged(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return tc.writeLoanError(c, err)
	}

	var req dto.DamageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Severity = strings.ToLower(strings.TrimSpace(req.Severity))
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	loan, err := tc.Svc.MarkDamaged(c.UserContext(), actor, id, service.DamageSeverity(req.Severity))
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	return tc.respondRow(c, loan.TransactionID, "Buku ditandai rusak", false)
}

// POST /api/a/transactions/bulk-return
func (tc *TransactionController) BulkReturn(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return tc.writeLoanError(c, err)
	}

	var req dto.BulkReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	ids, err := req.ParseIDs()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ids tidak valid")
	}
	ret, err := dto.ParseOptionalDate(req.ReturnDate)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	if ret.IsZero() {
		ret = tc.today(c)
	}

	res, err := tc.Svc.BulkMarkReturned(c.UserContext(), actor, ids, ret)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	return helper.JsonOK(c, "Pengembalian massal diproses", res)
}

// POST /api/a/transactions/:id/approve
func (tc *TransactionController) Approve(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return tc.writeLoanError(c, err)
	}

	var req dto.ApproveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
		}
	}
	borrow, err := dto.ParseOptionalDate(req.BorrowDate)
	if err != nil {
		return tc.writeLoanError(c, err)
	}

	loan, err := tc.Svc.ApproveLoan(c.UserContext(), actor, id, borrow)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	return tc.respondRow(c, loan.TransactionID, "Pengajuan disetujui", false)
}

// POST /api/a/transactions/:id/reject
func (tc *TransactionController) Reject(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	loan, err := tc.Svc.RejectLoan(c.UserContext(), actor, id)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	return tc.respondRow(c, loan.TransactionID, "Pengajuan ditolak", false)
}

// GET /api/a/transactions/overdue?as_of=YYYY-MM-DD
func (tc *TransactionController) Overdue(c *fiber.Ctx) error {
	asOf, err := dto.ParseOptionalDate(c.Query("as_of"))
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	if asOf.IsZero() {
		asOf = tc.today(c)
	}
	list, err := tc.Svc.ComputeOverdueSet(c.UserContext(), asOf)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.FromModel(m))
	}
	return helper.JsonOK(c, "Daftar pinjaman terlambat", out)
}

// POST /api/a/transactions/sweep-overdue
func (tc *TransactionController) Sweep(c *fiber.Ctx) error {
	asOf, err := dto.ParseOptionalDate(c.Query("as_of"))
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	if asOf.IsZero() {
		asOf = tc.today(c)
	}
	n, err := tc.Svc.SweepOverdue(c.UserContext(), asOf)
	if err != nil && n == 0 {
		return tc.writeLoanError(c, err)
	}
	if err != nil {
		tc.Log.Warn("[SWEEP] sebagian gagal", zap.Int("moved", n), zap.Error(err))
	}
	return helper.JsonOK(c, "Status keterlambatan diperbarui", fiber.Map{"moved": n})
}

// DELETE /api/a/transactions/:id
func (tc *TransactionController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	if err := repository.SoftDeleteTransaction(c.UserContext(), tc.DB, id); err != nil {
		return tc.writeLoanError(c, err)
	}
	tc.Log.Info("[LOAN] transaksi dihapus", zap.String("transaction_id", id.String()))
	return helper.JsonDeleted(c, "Transaksi dihapus", fiber.Map{"transaction_id": id})
}

// POST /api/a/transactions/:id/restore
func (tc *TransactionController) Restore(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	if err := repository.RestoreTransaction(c.UserContext(), tc.DB, id); err != nil {
		return tc.writeLoanError(c, err)
	}
	return tc.respondRow(c, id, "Transaksi dipulihkan", false)
}
