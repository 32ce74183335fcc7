package route

import (
	"github.com/gofiber/fiber/v2"

	"simpus_backend/internals/features/access"
	settingCtl "simpus_backend/internals/features/library/settings/controller"
	authMw "simpus_backend/internals/middlewares/auth"
)

//   - /api/a/settings
func SettingAdminRoutes(r fiber.Router, ctl *settingCtl.SettingController, checker access.Checker) {
	g := r.Group("/settings")
	g.Get("/", authMw.RequireAction(checker, access.ActionLoanViewAll), ctl.Get)
	g.Put("/", authMw.RequireAction(checker, access.ActionSettingManage), ctl.Put)
}
