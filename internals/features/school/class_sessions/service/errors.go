package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain error taxonomy. Lifecycle and locking errors originate here and in
// the attendance ledger and propagate unchanged to the controllers, which map
// them onto the JSON envelope. Nothing is retried internally.

var ErrNotFound = errors.New("registro no encontrado")

// ValidationError: malformed input (empty observation, unknown enum value,
// bad recurrence fields). Always recoverable by the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// SessionLockedError: mutation attempted on a session already dictada.
type SessionLockedError struct {
	SessionID uuid.UUID
}

func (e *SessionLockedError) Error() string {
	return fmt.Sprintf("la sesión %s ya fue dictada y no admite cambios", e.SessionID)
}

// IncompleteAttendanceError: completion attempted while attendance records
// are still pendiente.
type IncompleteAttendanceError struct {
	SessionID uuid.UUID
	Pending   int
}

func (e *IncompleteAttendanceError) Error() string {
	return fmt.Sprintf("la sesión %s tiene %d estudiantes sin registrar", e.SessionID, e.Pending)
}

// AlreadyCompletedError: double completion of the same session.
type AlreadyCompletedError struct {
	SessionID uuid.UUID
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("la sesión %s ya fue completada", e.SessionID)
}

// ScheduleLockedError: regeneration would disturb completed sessions.
// Recoverable only through an administrative override outside this subsystem.
type ScheduleLockedError struct {
	GroupID       uuid.UUID
	LockedNumbers []int
}

func (e *ScheduleLockedError) Error() string {
	return fmt.Sprintf("el grupo %s tiene %d sesiones dictadas que el nuevo horario no conserva", e.GroupID, len(e.LockedNumbers))
}
