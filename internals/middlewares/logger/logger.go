package logger

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LoggerMiddleware logs every request. LOG_TIMEZONE overrides the default.
func LoggerMiddleware() fiber.Handler {
	tz := os.Getenv("LOG_TIMEZONE")
	if tz == "" {
		tz = "America/Lima"
	}
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   tz,
		Format:     "[${time}] ${ip} - ${method} ${path} - ${status} - ${latency}\n",
	})
}
