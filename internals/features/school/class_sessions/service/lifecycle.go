package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attModel "academia_backend/internals/features/school/attendance/model"
	sessModel "academia_backend/internals/features/school/class_sessions/model"
)

/* =========================
   Session lifecycle manager
========================= */

// Lifecycle owns the session state machine:
// pendiente -> dictada (terminal), pendiente <-> suspendida.
type Lifecycle struct {
	DB *gorm.DB
}

func NewLifecycle(db *gorm.DB) *Lifecycle { return &Lifecycle{DB: db} }

type ExecutionInput struct {
	InstructorID uuid.UUID
	AssistantID  *uuid.UUID
	Topic        *string
	Date         time.Time
	Notes        *string
}

func (l *Lifecycle) getSession(tx *gorm.DB, branchID, sessionID uuid.UUID) (*sessModel.ClassSessionModel, error) {
	var s sessModel.ClassSessionModel
	err := tx.
		Where("class_session_id = ? AND class_session_branch_id = ?", sessionID, branchID).
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveExecution creates the execution row on first save and updates it in
// place afterwards. Only allowed while the session is pendiente.
func (l *Lifecycle) SaveExecution(ctx context.Context, branchID, sessionID uuid.UUID, in ExecutionInput) (*sessModel.ClassSessionExecutionModel, error) {
	if in.InstructorID == uuid.Nil {
		return nil, NewValidationError("instructor_id", "es obligatorio")
	}
	if in.Date.IsZero() {
		return nil, NewValidationError("date", "es obligatoria")
	}

	var out *sessModel.ClassSessionExecutionModel
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := l.getSession(tx, branchID, sessionID)
		if err != nil {
			return err
		}
		if s.ClassSessionStatus == sessModel.SessionStatusDictada {
			return &SessionLockedError{SessionID: sessionID}
		}

		var exec sessModel.ClassSessionExecutionModel
		err = tx.
			Where("class_session_execution_session_id = ?", sessionID).
			Take(&exec).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			exec = sessModel.ClassSessionExecutionModel{
				ClassSessionExecutionID:           uuid.New(),
				ClassSessionExecutionSessionID:    sessionID,
				ClassSessionExecutionBranchID:     branchID,
				ClassSessionExecutionInstructorID: in.InstructorID,
				ClassSessionExecutionAssistantID:  in.AssistantID,
				ClassSessionExecutionTopic:        in.Topic,
				ClassSessionExecutionDate:         in.Date,
				ClassSessionExecutionNotes:        in.Notes,
			}
			if err := tx.Create(&exec).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			exec.ClassSessionExecutionInstructorID = in.InstructorID
			exec.ClassSessionExecutionAssistantID = in.AssistantID
			exec.ClassSessionExecutionTopic = in.Topic
			exec.ClassSessionExecutionDate = in.Date
			exec.ClassSessionExecutionNotes = in.Notes
			if err := tx.Save(&exec).Error; err != nil {
				return err
			}
		}
		out = &exec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Complete flips pendiente -> dictada, the single irreversible transition in
// the subsystem. The pending-records check and the status flip run inside one
// transaction, and the flip itself is a compare-and-swap on the current
// status, so a race between two completion calls yields exactly one success.
func (l *Lifecycle) Complete(ctx context.Context, branchID, sessionID uuid.UUID) (*sessModel.ClassSessionModel, error) {
	var out *sessModel.ClassSessionModel
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := l.getSession(tx, branchID, sessionID)
		if err != nil {
			return err
		}
		switch s.ClassSessionStatus {
		case sessModel.SessionStatusDictada:
			return &AlreadyCompletedError{SessionID: sessionID}
		case sessModel.SessionStatusSuspendida:
			return NewValidationError("status", "una sesión suspendida no puede completarse")
		}

		var pending int64
		if err := tx.Model(&attModel.AttendanceRecordModel{}).
			Where("attendance_record_session_id = ? AND attendance_record_status = ?",
				sessionID, attModel.AttendanceStatusPendiente).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return &IncompleteAttendanceError{SessionID: sessionID, Pending: int(pending)}
		}

		res := tx.Model(&sessModel.ClassSessionModel{}).
			Where("class_session_id = ? AND class_session_status = ?",
				sessionID, sessModel.SessionStatusPendiente).
			Update("class_session_status", sessModel.SessionStatusDictada)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race: someone else completed it first.
			return &AlreadyCompletedError{SessionID: sessionID}
		}

		s.ClassSessionStatus = sessModel.SessionStatusDictada
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Suspend moves pendiente -> suspendida. Reason is required.
func (l *Lifecycle) Suspend(ctx context.Context, branchID, sessionID uuid.UUID, reason string) (*sessModel.ClassSessionModel, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, NewValidationError("reason", "es obligatoria")
	}

	var out *sessModel.ClassSessionModel
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := l.getSession(tx, branchID, sessionID)
		if err != nil {
			return err
		}
		if s.ClassSessionStatus == sessModel.SessionStatusDictada {
			return &SessionLockedError{SessionID: sessionID}
		}
		if err := tx.Model(&sessModel.ClassSessionModel{}).
			Where("class_session_id = ?", sessionID).
			Updates(map[string]any{
				"class_session_status":            sessModel.SessionStatusSuspendida,
				"class_session_suspension_reason": reason,
			}).Error; err != nil {
			return err
		}
		s.ClassSessionStatus = sessModel.SessionStatusSuspendida
		s.ClassSessionSuspensionReason = &reason
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Resume moves suspendida back to pendiente and discards the reason.
func (l *Lifecycle) Resume(ctx context.Context, branchID, sessionID uuid.UUID) (*sessModel.ClassSessionModel, error) {
	var out *sessModel.ClassSessionModel
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := l.getSession(tx, branchID, sessionID)
		if err != nil {
			return err
		}
		if s.ClassSessionStatus == sessModel.SessionStatusDictada {
			return &SessionLockedError{SessionID: sessionID}
		}
		if err := tx.Model(&sessModel.ClassSessionModel{}).
			Where("class_session_id = ?", sessionID).
			Updates(map[string]any{
				"class_session_status":            sessModel.SessionStatusPendiente,
				"class_session_suspension_reason": nil,
			}).Error; err != nil {
			return err
		}
		s.ClassSessionStatus = sessModel.SessionStatusPendiente
		s.ClassSessionSuspensionReason = nil
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
