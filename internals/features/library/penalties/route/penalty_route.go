package route

import (
	"github.com/gofiber/fiber/v2"

	"simpus_backend/internals/features/access"
	penaltyCtl "simpus_backend/internals/features/library/penalties/controller"
	authMw "simpus_backend/internals/middlewares/auth"
)

//   - /api/u/penalties
func PenaltyUserRoutes(r fiber.Router, ctl *penaltyCtl.PenaltyController, checker access.Checker) {
	g := r.Group("/penalties", authMw.RequireAction(checker, access.ActionPenaltyPayOwn))
	g.Get("/", ctl.ListMine)
	g.Post("/:id/pay", ctl.Pay)
}

//   - /api/a/penalties
func PenaltyAdminRoutes(r fiber.Router, ctl *penaltyCtl.PenaltyController, checker access.Checker) {
	g := r.Group("/penalties", authMw.RequireAction(checker, access.ActionPenaltySettle))
	g.Get("/", ctl.ListAll)
	g.Post("/:id/settle", ctl.SettleCash)
}

//   - /api/payments/midtrans/notification (tanpa JWT, diverifikasi signature)
func PaymentWebhookRoutes(app *fiber.App, ctl *penaltyCtl.PenaltyController) {
	app.Post("/api/payments/midtrans/notification", ctl.MidtransWebhook)
}
