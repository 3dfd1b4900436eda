// file: internals/features/school/attendance/controller/attendance_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"academia_backend/internals/features/school/attendance/dto"
	attModel "academia_backend/internals/features/school/attendance/model"
	attService "academia_backend/internals/features/school/attendance/service"
	helper "academia_backend/internals/helpers"
)

type AttendanceController struct {
	DB     *gorm.DB
	Ledger *attService.Ledger
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{
		DB:     db,
		Ledger: attService.NewLedger(db),
	}
}

func validationErrorsToMap(err error) map[string][]string {
	out := map[string][]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			f := strings.ToLower(fe.Field())
			out[f] = append(out[f], "failed on rule: "+fe.Tag())
		}
	} else {
		out["body"] = append(out["body"], err.Error())
	}
	return out
}

/* =========================================================
   Status updates
========================================================= */

// PUT /api/a/class-sessions/:id/attendance
func (ctl *AttendanceController) SetStatus(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid session id")
	}

	var req dto.SetAttendanceStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, validationErrorsToMap(err))
	}

	records, err := ctl.Ledger.SetStatus(c.Context(), branchID, sessionID,
		req.AttendanceRecordEnrollmentID,
		attModel.AttendanceStatus(req.AttendanceRecordStatus),
		req.AttendanceRecordCourseIDs)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "attendance updated", dto.FromAttendanceRecordModels(records))
}

/* =========================================================
   Roster & record detail
========================================================= */

// GET /api/a/class-sessions/:id/students?course_id=
func (ctl *AttendanceController) GetSessionStudents(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid session id")
	}

	var courseID *uuid.UUID
	if raw := strings.TrimSpace(c.Query("course_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{"course_id": {"must be a uuid"}})
		}
		courseID = &id
	}

	students, err := ctl.Ledger.GetSessionStudents(c.Context(), branchID, sessionID, courseID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "session attendance", dto.FromSessionStudents(students))
}

// GET /api/a/attendance-records/:record_id
func (ctl *AttendanceController) GetRecord(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	recordID, err := uuid.Parse(c.Params("record_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid record id")
	}

	rec, err := ctl.Ledger.GetRecord(c.Context(), branchID, recordID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "attendance record", dto.FromSessionStudent(*rec))
}

/* =========================================================
   Observations
========================================================= */

// POST /api/a/attendance-records/:record_id/observations
func (ctl *AttendanceController) AddObservation(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	recordID, err := uuid.Parse(c.Params("record_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid record id")
	}

	var req dto.AddObservationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, validationErrorsToMap(err))
	}

	authorID := helper.GetUserIDFromToken(c)
	obs, err := ctl.Ledger.AddObservation(c.Context(), branchID, recordID,
		req.AttendanceObservationContent, authorID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonCreated(c, "observation added", dto.FromAttendanceObservationModel(*obs))
}
