// middlewares/cors_middleware.go

package middlewares

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CorsMiddleware builds the CORS layer. Origins come from CORS_ORIGINS
// (comma separated); localhost dev origins are the fallback.
func CorsMiddleware() fiber.Handler {
	origins := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if origins == "" {
		origins = strings.Join([]string{
			"http://localhost:5173",
			"http://127.0.0.1:5500",
		}, ", ")
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	})
}
