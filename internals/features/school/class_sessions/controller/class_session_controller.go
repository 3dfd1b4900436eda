// file: internals/features/school/class_sessions/controller/class_session_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"academia_backend/internals/features/school/class_sessions/dto"
	sessModel "academia_backend/internals/features/school/class_sessions/model"
	sessService "academia_backend/internals/features/school/class_sessions/service"
	helper "academia_backend/internals/helpers"
)

type ClassSessionController struct {
	DB           *gorm.DB
	Materializer *sessService.Materializer
	Lifecycle    *sessService.Lifecycle
	Finder       *sessService.PendingFinder
}

func NewClassSessionController(db *gorm.DB) *ClassSessionController {
	return &ClassSessionController{
		DB:           db,
		Materializer: sessService.NewMaterializer(db),
		Lifecycle:    sessService.NewLifecycle(db),
		Finder:       sessService.NewPendingFinder(db),
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
   Schedule generation
========================================================= */

// POST /api/a/class-groups/:group_id/sessions/generate
func (ctl *ClassSessionController) GenerateSchedule(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	groupID, err := uuid.Parse(c.Params("group_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid group id")
	}

	sessions, err := ctl.Materializer.GenerateSchedule(c.Context(), branchID, groupID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonCreated(c, "schedule generated", dto.FromClassSessionModels(sessions))
}

// POST /api/a/class-groups/:group_id/sessions/recalculate
func (ctl *ClassSessionController) RecalculateDates(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	groupID, err := uuid.Parse(c.Params("group_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid group id")
	}

	sessions, err := ctl.Materializer.RecalculateDates(c.Context(), branchID, groupID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "dates recalculated", dto.FromClassSessionModels(sessions))
}

/* =========================================================
   Listing & detail
========================================================= */

// GET /api/a/class-groups/:group_id/sessions
func (ctl *ClassSessionController) ListGroupSessions(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	groupID, err := uuid.Parse(c.Params("group_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid group id")
	}

	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).
		Model(&sessModel.ClassSessionModel{}).
		Where("class_session_group_id = ? AND class_session_branch_id = ?", groupID, branchID)
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if !sessModel.SessionStatus(status).Valid() {
			return helper.JsonValidationError(c, map[string][]string{"status": {"unknown value: " + status}})
		}
		q = q.Where("class_session_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var sessions []sessModel.ClassSessionModel
	if err := q.Order("class_session_number ASC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&sessions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "sessions", dto.FromClassSessionModels(sessions),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/a/class-sessions/:id
func (ctl *ClassSessionController) GetSessionDetail(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid session id")
	}

	var s sessModel.ClassSessionModel
	errDB := ctl.DB.WithContext(c.Context()).
		Where("class_session_id = ? AND class_session_branch_id = ?", sessionID, branchID).
		Take(&s).Error
	if errors.Is(errDB, gorm.ErrRecordNotFound) {
		return helper.FromDomainError(c, sessService.ErrNotFound)
	}
	if errDB != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, errDB.Error())
	}

	var topics []sessModel.ClassSessionTopicModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("class_session_topic_session_id = ?", sessionID).
		Order("class_session_topic_order_index ASC").
		Find(&topics).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	detail := dto.ClassSessionDetailResponse{
		Session: dto.FromClassSessionModel(s),
		Topics:  make([]dto.ClassSessionTopicResponse, 0, len(topics)),
	}
	for _, t := range topics {
		detail.Topics = append(detail.Topics, dto.FromClassSessionTopicModel(t))
	}

	var exec sessModel.ClassSessionExecutionModel
	errDB = ctl.DB.WithContext(c.Context()).
		Where("class_session_execution_session_id = ?", sessionID).
		Take(&exec).Error
	if errDB == nil {
		r := dto.FromClassSessionExecutionModel(exec)
		detail.Execution = &r
	} else if !errors.Is(errDB, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusInternalServerError, errDB.Error())
	}

	return helper.JsonOK(c, "session detail", detail)
}

/* =========================================================
   Lifecycle
========================================================= */

// PUT /api/a/class-sessions/:id/execution
func (ctl *ClassSessionController) SaveExecution(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid session id")
	}

	var req dto.SaveExecutionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, validationErrorsToMap(err))
	}

	in, err := req.ToInput()
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{
			"class_session_execution_date": {"must be YYYY-MM-DD"},
		})
	}

	exec, err := ctl.Lifecycle.SaveExecution(c.Context(), branchID, sessionID, in)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "execution saved", dto.FromClassSessionExecutionModel(*exec))
}

// POST /api/a/class-sessions/:id/complete
func (ctl *ClassSessionController) Complete(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid session id")
	}

	s, err := ctl.Lifecycle.Complete(c.Context(), branchID, sessionID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "session completed", dto.FromClassSessionModel(*s))
}

// POST /api/a/class-sessions/:id/suspend
func (ctl *ClassSessionController) Suspend(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid session id")
	}

	var req dto.SuspendSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, validationErrorsToMap(err))
	}

	s, err := ctl.Lifecycle.Suspend(c.Context(), branchID, sessionID, req.ClassSessionSuspensionReason)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "session suspended", dto.FromClassSessionModel(*s))
}

// POST /api/a/class-sessions/:id/resume
func (ctl *ClassSessionController) Resume(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid session id")
	}

	s, err := ctl.Lifecycle.Resume(c.Context(), branchID, sessionID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "session resumed", dto.FromClassSessionModel(*s))
}

/* =========================================================
   Pending sessions
========================================================= */

// GET /api/a/class-sessions/pending?as_of=YYYY-MM-DD
func (ctl *ClassSessionController) Pending(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromDomainError(c, err)
	}

	asOf := time.Now()
	if raw := strings.TrimSpace(c.Query("as_of")); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{"as_of": {"must be YYYY-MM-DD"}})
		}
		asOf = d
	}

	pending, err := ctl.Finder.FindPending(c.Context(), branchID, asOf)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "pending sessions", dto.FromPendingSessions(pending))
}
