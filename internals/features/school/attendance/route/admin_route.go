// file: internals/features/school/attendance/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attController "academia_backend/internals/features/school/attendance/controller"
)

// AttendanceAdminRoutes wires the ledger, roster and notebook endpoints.
func AttendanceAdminRoutes(admin fiber.Router, db *gorm.DB) {
	attCtl := attController.NewAttendanceController(db)
	nbCtl := attController.NewNotebookController(db)

	sessions := admin.Group("/class-sessions")
	sessions.Put("/:id/attendance", attCtl.SetStatus)
	sessions.Get("/:id/students", attCtl.GetSessionStudents)

	records := admin.Group("/attendance-records")
	records.Get("/:record_id", attCtl.GetRecord)
	records.Post("/:record_id/observations", attCtl.AddObservation)

	admin.Get("/class-groups/:group_id/notebook", nbCtl.GetNotebook)
}
