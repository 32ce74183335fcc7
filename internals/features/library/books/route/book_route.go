package route

import (
	"github.com/gofiber/fiber/v2"

	"simpus_backend/internals/features/access"
	bookCtl "simpus_backend/internals/features/library/books/controller"
	authMw "simpus_backend/internals/middlewares/auth"
)

//   - /api/public/books
func BookPublicRoutes(r fiber.Router, ctl *bookCtl.BookController) {
	g := r.Group("/books")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
}

//   - /api/a/books/...
func BookAdminRoutes(r fiber.Router, ctl *bookCtl.BookController, checker access.Checker) {
	write := authMw.RequireAction(checker, access.ActionBookWrite)

	g := r.Group("/books")
	g.Get("/", write, ctl.List)
	g.Get("/:id", write, ctl.Get)
	g.Post("/", write, ctl.Create)
	g.Patch("/:id", write, ctl.Update)
	g.Delete("/:id", authMw.RequireAction(checker, access.ActionRecordDelete), ctl.Delete)
	g.Post("/:id/restore", authMw.RequireAction(checker, access.ActionRecordRestore), ctl.Restore)
}
