package route

import (
	"github.com/gofiber/fiber/v2"

	"simpus_backend/internals/features/access"
	txCtl "simpus_backend/internals/features/library/transactions/controller"
	authMw "simpus_backend/internals/middlewares/auth"
)

//   - /api/a/transactions/...
func TransactionAdminRoutes(r fiber.Router, ctl *txCtl.TransactionController, checker access.Checker) {
	g := r.Group("/transactions")

	g.Get("/", authMw.RequireAction(checker, access.ActionLoanViewAll), ctl.List)
	g.Get("/overdue", authMw.RequireAction(checker, access.ActionLoanSweep), ctl.Overdue)
	g.Post("/", ctl.Create) // otorisasi di service
	g.Post("/bulk-return", ctl.BulkReturn)
	g.Post("/sweep-overdue", authMw.RequireAction(checker, access.ActionLoanSweep), ctl.Sweep)
	g.Get("/:id", authMw.RequireAction(checker, access.ActionLoanViewAll), ctl.Get)

	g.Post("/:id/return", ctl.Return)
	g.Post("/:id/lost", ctl.MarkLost)
	g.Post("/:id/damaged", ctl.MarkDamaged)
	g.Post("/:id/approve", ctl.Approve)
	g.Post("/:id/reject", ctl.Reject)

	g.Delete("/:id", authMw.RequireAction(checker, access.ActionRecordDelete), ctl.Delete)
	g.Post("/:id/restore", authMw.RequireAction(checker, access.ActionRecordRestore), ctl.Restore)
}
