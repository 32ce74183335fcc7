package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"simpus_backend/internals/features/library/transactions/dto"
	"simpus_backend/internals/features/library/transactions/repository"
	helper "simpus_backend/internals/helpers"
)

// filterFromQuery membaca ?status=a,b&active=&overdue=&from=&to=&q=&book_id=&member_id=
func (tc *TransactionController) filterFromQuery(c *fiber.Ctx) (repository.ListFilter, error) {
	var f repository.ListFilter

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(strings.ToLower(s)); s != "" {
				f.StatusCodes = append(f.StatusCodes, s)
			}
		}
	}
	f.Code = c.Query("q")
	f.OutstandingOnly, _ = strconv.ParseBool(c.Query("active", "false"))
	if overdue, _ := strconv.ParseBool(c.Query("overdue", "false")); overdue {
		today := tc.today(c)
		f.OverdueAsOf = &today
	}

	if v := strings.TrimSpace(c.Query("from")); v != "" {
		d, err := dto.ParseOptionalDate(v)
		if err != nil {
			return f, err
		}
		f.BorrowFrom = &d
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		d, err := dto.ParseOptionalDate(v)
		if err != nil {
			return f, err
		}
		f.BorrowTo = &d
	}

	if v := strings.TrimSpace(c.Query("book_id")); v != "" {
		id, err := parseUUIDQuery("book_id", v)
		if err != nil {
			return f, err
		}
		f.BookID = &id
	}
	if v := strings.TrimSpace(c.Query("member_id")); v != "" {
		id, err := parseUUIDQuery("member_id", v)
		if err != nil {
			return f, err
		}
		f.MemberID = &id
	}
	return f, nil
}

func (tc *TransactionController) list(c *fiber.Ctx, f repository.ListFilter, msg string) error {
	paging := helper.ResolvePaging(c, 20, 100)
	f.Offset, f.Limit = paging.Offset, paging.Limit

	rows, total, err := repository.ListTransactions(c.UserContext(), tc.DB, f)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowResponse(r))
	}
	return helper.JsonList(c, msg, out, helper.BuildPagination(total, paging))
}

// GET /api/a/transactions
func (tc *TransactionController) List(c *fiber.Ctx) error {
	f, err := tc.filterFromQuery(c)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	f.IncludeDeleted, _ = strconv.ParseBool(c.Query("include_deleted", "false"))
	return tc.list(c, f, "Daftar transaksi")
}

// GET /api/a/transactions/:id
func (tc *TransactionController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	includeDeleted, _ := strconv.ParseBool(c.Query("include_deleted", "false"))
	row, err := repository.GetTransactionRow(c.UserContext(), tc.DB, id, includeDeleted)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	return helper.JsonOK(c, "Detail transaksi", rowResponse(*row))
}

// GET /api/u/loans: hanya milik user yang login.
func (tc *TransactionController) ListMine(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	f, err := tc.filterFromQuery(c)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	f.MemberID = &actor.UserID
	return tc.list(c, f, "Daftar pinjaman saya")
}

// POST /api/u/loans/request
func (tc *TransactionController) RequestLoan(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	var req dto.RequestLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.BookID = strings.TrimSpace(req.BookID)
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	bookID, _ := parseUUIDQuery("book_id", req.BookID)

	loan, err := tc.Svc.RequestLoan(c.UserContext(), actor, bookID)
	if err != nil {
		return tc.writeLoanError(c, err)
	}
	return tc.respondRow(c, loan.TransactionID, "Pengajuan pinjaman terkirim", true)
}

func parseUUIDQuery(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" tidak valid")
	}
	return id, nil
}
