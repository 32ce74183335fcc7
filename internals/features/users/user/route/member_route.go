package route

import (
	"github.com/gofiber/fiber/v2"

	"simpus_backend/internals/features/access"
	memberCtl "simpus_backend/internals/features/users/user/controller"
	authMw "simpus_backend/internals/middlewares/auth"
)

//   - /api/a/members
func MemberAdminRoutes(r fiber.Router, ctl *memberCtl.MemberController, checker access.Checker) {
	g := r.Group("/members")
	g.Get("/", authMw.RequireAction(checker, access.ActionMemberView), ctl.List)
	g.Get("/:id", authMw.RequireAction(checker, access.ActionMemberView), ctl.Get)
	g.Patch("/:id/membership", authMw.RequireAction(checker, access.ActionMemberManage), ctl.UpdateMembership)
	g.Patch("/:id/role", authMw.RequireAction(checker, access.ActionRoleManage), ctl.UpdateRole)
	g.Delete("/:id", authMw.RequireAction(checker, access.ActionRecordDelete), ctl.Delete)
	g.Post("/:id/restore", authMw.RequireAction(checker, access.ActionRecordRestore), ctl.Restore)
}
