// file: internals/route/index.go
package routes

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attRoute "academia_backend/internals/features/school/attendance/route"
	sessRoute "academia_backend/internals/features/school/class_sessions/route"
	authMiddleware "academia_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// ===================== ADMIN (per branch) =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting class session routes...")
	sessRoute.ClassSessionAdminRoutes(admin, db)

	log.Println("[INFO] Mounting attendance routes...")
	attRoute.AttendanceAdminRoutes(admin, db)
}
