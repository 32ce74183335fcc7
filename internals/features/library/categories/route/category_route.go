package route

import (
	"github.com/gofiber/fiber/v2"

	"simpus_backend/internals/features/access"
	catCtl "simpus_backend/internals/features/library/categories/controller"
	authMw "simpus_backend/internals/middlewares/auth"
)

//   - /api/public/categories
func CategoryPublicRoutes(r fiber.Router, ctl *catCtl.CategoryController) {
	r.Get("/categories", ctl.List)
}

//   - /api/a/categories/...
func CategoryAdminRoutes(r fiber.Router, ctl *catCtl.CategoryController, checker access.Checker) {
	write := authMw.RequireAction(checker, access.ActionCategoryWrite)

	g := r.Group("/categories")
	g.Get("/", write, ctl.List)
	g.Get("/:id", write, ctl.Get)
	g.Post("/", write, ctl.Create)
	g.Patch("/:id", write, ctl.Update)
	g.Delete("/:id", authMw.RequireAction(checker, access.ActionRecordDelete), ctl.Delete)
	g.Post("/:id/restore", authMw.RequireAction(checker, access.ActionRecordRestore), ctl.Restore)
}
