package auth

import (
	"github.com/gofiber/fiber/v2"

	"simpus_backend/internals/features/access"
	helper "simpus_backend/internals/helpers"
)

// OnlyRolesSlice memungkinkan akses jika user memiliki salah satu dari role yang diizinkan.
func OnlyRolesSlice(message string, allowedRoles []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helper.GetUserRole(c)
		if role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Role not found")
		}
		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return helper.JsonError(c, fiber.StatusForbidden, message)
	}
}

// RequireAction menanyakan Checker apakah role di token boleh menjalankan action.
func RequireAction(checker access.Checker, action access.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helper.GetUserRole(c)
		if role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Role not found")
		}
		if !checker.Allowed(role, action) {
			return helper.JsonError(c, fiber.StatusForbidden, "Akses ditolak untuk aksi "+string(action))
		}
		return c.Next()
	}
}
