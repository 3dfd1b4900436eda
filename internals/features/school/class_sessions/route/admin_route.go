// file: internals/features/school/class_sessions/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sessController "academia_backend/internals/features/school/class_sessions/controller"
	"academia_backend/internals/middlewares"
)

// ClassSessionAdminRoutes wires the scheduling and lifecycle endpoints under
// the admin group. Generation endpoints carry their own rate limiter.
func ClassSessionAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := sessController.NewClassSessionController(db)

	groups := admin.Group("/class-groups")
	groups.Post("/:group_id/sessions/generate", middlewares.GenerateScheduleRateLimiter(), ctl.GenerateSchedule)
	groups.Post("/:group_id/sessions/recalculate", middlewares.GenerateScheduleRateLimiter(), ctl.RecalculateDates)
	groups.Get("/:group_id/sessions", ctl.ListGroupSessions)

	sessions := admin.Group("/class-sessions")
	sessions.Get("/pending", ctl.Pending)
	sessions.Get("/:id", ctl.GetSessionDetail)
	sessions.Put("/:id/execution", ctl.SaveExecution)
	sessions.Post("/:id/complete", ctl.Complete)
	sessions.Post("/:id/suspend", ctl.Suspend)
	sessions.Post("/:id/resume", ctl.Resume)
}
