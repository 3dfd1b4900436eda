package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attModel "academia_backend/internals/features/school/attendance/model"
	sessModel "academia_backend/internals/features/school/class_sessions/model"
	sessService "academia_backend/internals/features/school/class_sessions/service"
)

/* =========================
   Attendance ledger
========================= */

// Ledger owns attendance-status updates and observations. Statuses form a
// flat set: any value may move to any other while the owning session is
// still open; the only gate is the session lock.
type Ledger struct {
	DB *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger { return &Ledger{DB: db} }

func (l *Ledger) getOpenSession(tx *gorm.DB, branchID, sessionID uuid.UUID) (*sessModel.ClassSessionModel, error) {
	var s sessModel.ClassSessionModel
	err := tx.
		Where("class_session_id = ? AND class_session_branch_id = ?", sessionID, branchID).
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, sessService.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.ClassSessionStatus == sessModel.SessionStatusDictada {
		return nil, &sessService.SessionLockedError{SessionID: sessionID}
	}
	return &s, nil
}

// sessionCourseIDs: distinct course ids present in the session's topic
// snapshot, first-seen order.
func (l *Ledger) sessionCourseIDs(tx *gorm.DB, sessionID uuid.UUID) ([]uuid.UUID, error) {
	var topics []sessModel.ClassSessionTopicModel
	if err := tx.
		Where("class_session_topic_session_id = ?", sessionID).
		Order("class_session_topic_order_index ASC").
		Find(&topics).Error; err != nil {
		return nil, err
	}
	seen := map[uuid.UUID]bool{}
	out := make([]uuid.UUID, 0, len(topics))
	for _, t := range topics {
		if !seen[t.ClassSessionTopicCourseID] {
			seen[t.ClassSessionTopicCourseID] = true
			out = append(out, t.ClassSessionTopicCourseID)
		}
	}
	return out, nil
}

// SetStatus writes an attendance status for one enrollment in one session.
// Scope rules: explicit course ids update those courses' records; no scope
// means "all courses", which fans out one write per distinct course id in the
// session topics (single write on the nil-course record for topicless
// groups). Fails with SessionLockedError once the session is dictada.
func (l *Ledger) SetStatus(ctx context.Context, branchID, sessionID, enrollmentID uuid.UUID, status attModel.AttendanceStatus, courseIDs []uuid.UUID) ([]attModel.AttendanceRecordModel, error) {
	if !status.Valid() {
		return nil, sessService.NewValidationError("status", "valor desconocido: "+string(status))
	}

	var updated []attModel.AttendanceRecordModel
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := l.getOpenSession(tx, branchID, sessionID); err != nil {
			return err
		}

		targets := courseIDs
		if len(targets) == 0 {
			all, err := l.sessionCourseIDs(tx, sessionID)
			if err != nil {
				return err
			}
			targets = all
		}

		apply := func(q *gorm.DB) *gorm.DB {
			return q.Model(&attModel.AttendanceRecordModel{}).
				Where("attendance_record_session_id = ? AND attendance_record_enrollment_id = ?", sessionID, enrollmentID)
		}

		if len(targets) == 0 {
			// Topicless session: the single nil-course record.
			res := apply(tx).
				Where("attendance_record_course_id IS NULL").
				Update("attendance_record_status", status)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return sessService.ErrNotFound
			}
		} else {
			// Explicit fan-out, one write per course id.
			var touched int64
			for _, cid := range targets {
				res := apply(tx).
					Where("attendance_record_course_id = ?", cid).
					Update("attendance_record_status", status)
				if res.Error != nil {
					return res.Error
				}
				touched += res.RowsAffected
			}
			if touched == 0 {
				return sessService.ErrNotFound
			}
		}

		return tx.
			Where("attendance_record_session_id = ? AND attendance_record_enrollment_id = ?", sessionID, enrollmentID).
			Order("attendance_record_created_at ASC").
			Find(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddObservation appends a note to an attendance record. Observations stay
// appendable after the session is dictada: they are an audit trail and never
// alter the attendance outcome.
func (l *Ledger) AddObservation(ctx context.Context, branchID, recordID uuid.UUID, content string, authorID *uuid.UUID) (*attModel.AttendanceObservationModel, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, sessService.NewValidationError("content", "no puede estar vacío")
	}

	var rec attModel.AttendanceRecordModel
	err := l.DB.WithContext(ctx).
		Where("attendance_record_id = ? AND attendance_record_branch_id = ?", recordID, branchID).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, sessService.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	obs := attModel.AttendanceObservationModel{
		AttendanceObservationID:       uuid.New(),
		AttendanceObservationRecordID: recordID,
		AttendanceObservationBranchID: branchID,
		AttendanceObservationContent:  content,
		AttendanceObservationAuthorID: authorID,
	}
	if err := l.DB.WithContext(ctx).Create(&obs).Error; err != nil {
		return nil, err
	}
	return &obs, nil
}
