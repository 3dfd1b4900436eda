package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"academia_backend/internals/middlewares/logger"
)

// SetupMiddlewares wires the base middleware chain in order: recovery first
// so the logger still sees panicking requests.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
