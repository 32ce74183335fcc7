package route

import (
	"github.com/gofiber/fiber/v2"

	"simpus_backend/internals/features/access"
	statusCtl "simpus_backend/internals/features/library/statuses/controller"
	authMw "simpus_backend/internals/middlewares/auth"
)

func StatusPublicRoutes(r fiber.Router, ctl *statusCtl.StatusController) {
	r.Get("/statuses", ctl.List)
}

func StatusAdminRoutes(r fiber.Router, ctl *statusCtl.StatusController, checker access.Checker) {
	g := r.Group("/statuses", authMw.RequireAction(checker, access.ActionStatusManage))
	g.Get("/", ctl.List)
	g.Patch("/:id", ctl.Update)
}
