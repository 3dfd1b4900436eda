// file: internals/features/school/attendance/controller/notebook_controller.go
package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	attService "academia_backend/internals/features/school/attendance/service"
	helper "academia_backend/internals/helpers"
)

type NotebookController struct {
	DB       *gorm.DB
	Notebook *attService.Notebook
}

func NewNotebookController(db *gorm.DB) *NotebookController {
	return &NotebookController{
		DB:       db,
		Notebook: attService.NewNotebook(db),
	}
}

func parseNotebookFilters(c *fiber.Ctx) (attService.NotebookFilters, error) {
	var f attService.NotebookFilters

	f.Page, _ = strconv.Atoi(c.Query("page", "1"))
	f.SessionsPerPage, _ = strconv.Atoi(c.Query("sessions_per_page", "10"))
	f.StudentFilter = strings.TrimSpace(c.Query("student_filter"))
	f.SearchTerm = strings.TrimSpace(c.Query("search"))
	f.SortBy = strings.TrimSpace(c.Query("sort_by"))
	f.SortOrder = strings.TrimSpace(c.Query("sort_order"))

	if raw := strings.TrimSpace(c.Query("start_date")); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, fiber.NewError(fiber.StatusUnprocessableEntity, "start_date must be YYYY-MM-DD")
		}
		f.StartDate = &d
	}
	if raw := strings.TrimSpace(c.Query("end_date")); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, fiber.NewError(fiber.StatusUnprocessableEntity, "end_date must be YYYY-MM-DD")
		}
		f.EndDate = &d
	}
	if raw := strings.TrimSpace(c.Query("course_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, fiber.NewError(fiber.StatusUnprocessableEntity, "course_id must be a uuid")
		}
		f.CourseID = &id
	}
	return f, nil
}

// GET /api/a/class-groups/:group_id/notebook
func (ctl *NotebookController) GetNotebook(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	groupID, err := uuid.Parse(c.Params("group_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid group id")
	}

	filters, err := parseNotebookFilters(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}

	view, err := ctl.Notebook.BuildNotebook(c.Context(), branchID, groupID, filters)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "attendance notebook", view)
}
