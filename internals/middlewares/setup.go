package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"go.uber.org/zap"

	"simpus_backend/internals/middlewares/logger"
)

// timezone dipakai access log (jam perpustakaan).
func SetupMiddlewares(app *fiber.App, log *zap.Logger, timezone string) {
	app.Use(RecoveryMiddleware(log))
	app.Use(RequestIDMiddleware(log, 5*time.Second))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware(timezone))
	app.Use(GlobalRateLimiter())
}
