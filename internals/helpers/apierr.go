// file: internals/helpers/apierr.go
package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	sessService "academia_backend/internals/features/school/class_sessions/service"
)

// FromDomainError translates the scheduling/attendance error taxonomy into
// the standard JSON envelope. Unrecognized errors fall through as 500 —
// nothing is downgraded or swallowed.
func FromDomainError(c *fiber.Ctx, err error) error {
	var (
		vErr  *sessService.ValidationError
		lErr  *sessService.SessionLockedError
		iErr  *sessService.IncompleteAttendanceError
		aErr  *sessService.AlreadyCompletedError
		scErr *sessService.ScheduleLockedError
	)
	switch {
	case errors.Is(err, sessService.ErrNotFound):
		return JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.As(err, &vErr):
		return JsonValidationError(c, map[string][]string{vErr.Field: {vErr.Reason}})
	case errors.As(err, &lErr):
		return JsonError(c, fiber.StatusLocked, lErr.Error())
	case errors.As(err, &iErr):
		return JsonError(c, fiber.StatusConflict, iErr.Error())
	case errors.As(err, &aErr):
		return JsonError(c, fiber.StatusConflict, aErr.Error())
	case errors.As(err, &scErr):
		return JsonError(c, fiber.StatusLocked, scErr.Error())
	}
	if fe, ok := err.(*fiber.Error); ok {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}
