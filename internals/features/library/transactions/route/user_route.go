package route

import (
	"github.com/gofiber/fiber/v2"

	"simpus_backend/internals/features/access"
	txCtl "simpus_backend/internals/features/library/transactions/controller"
	authMw "simpus_backend/internals/middlewares/auth"
)

//   - /api/u/loans/...
func TransactionUserRoutes(r fiber.Router, ctl *txCtl.TransactionController, checker access.Checker) {
	g := r.Group("/loans")
	g.Get("/", authMw.RequireAction(checker, access.ActionLoanViewOwn), ctl.ListMine)
	g.Post("/request", ctl.RequestLoan)
}
