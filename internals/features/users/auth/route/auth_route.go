package route

import (
	"github.com/gofiber/fiber/v2"

	"simpus_backend/internals/features/users/auth/controller"
	rateLimiter "simpus_backend/internals/middlewares"
)

// AuthRoutes: /api/auth. authMw dipasang hanya pada endpoint yang butuh login.
func AuthRoutes(app *fiber.App, ctrl *controller.AuthController, authMw fiber.Handler) {
	baseAuth := app.Group("/api/auth")

	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), ctrl.Login)
	baseAuth.Post("/login-google", rateLimiter.LoginRateLimiter(), ctrl.LoginGoogle)
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), ctrl.Register)

	baseAuth.Post("/logout", authMw, ctrl.Logout)
	baseAuth.Post("/change-password", authMw, ctrl.ChangePassword)
	baseAuth.Get("/me", authMw, ctrl.Me)
}
