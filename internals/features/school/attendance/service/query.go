package service

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attModel "academia_backend/internals/features/school/attendance/model"
	sessService "academia_backend/internals/features/school/class_sessions/service"
	groupModel "academia_backend/internals/features/school/groups/model"
)

// SessionStudent is one attendance record joined with the enrolled student's
// identity snapshot and its observation log (newest first).
type SessionStudent struct {
	Record       attModel.AttendanceRecordModel        `json:"record"`
	StudentID    uuid.UUID                             `json:"student_id"`
	FullName     string                                `json:"full_name"`
	Document     string                                `json:"document"`
	Observations []attModel.AttendanceObservationModel `json:"observations"`
}

// GetSessionStudents lists the attendance records of one session, optionally
// restricted to a single course, with denormalized student identity.
func (l *Ledger) GetSessionStudents(ctx context.Context, branchID, sessionID uuid.UUID, courseID *uuid.UUID) ([]SessionStudent, error) {
	db := l.DB.WithContext(ctx)

	q := db.
		Where("attendance_record_session_id = ? AND attendance_record_branch_id = ?", sessionID, branchID)
	if courseID != nil {
		q = q.Where("attendance_record_course_id = ?", *courseID)
	}
	var records []attModel.AttendanceRecordModel
	if err := q.Order("attendance_record_created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		// Distinguish "no records" from "no such session".
		var n int64
		if err := db.Table("class_sessions").
			Where("class_session_id = ? AND class_session_branch_id = ? AND class_session_deleted_at IS NULL", sessionID, branchID).
			Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, sessService.ErrNotFound
		}
		return []SessionStudent{}, nil
	}

	enrollmentIDs := make([]uuid.UUID, 0, len(records))
	recordIDs := make([]uuid.UUID, 0, len(records))
	for _, r := range records {
		enrollmentIDs = append(enrollmentIDs, r.AttendanceRecordEnrollmentID)
		recordIDs = append(recordIDs, r.AttendanceRecordID)
	}

	var enrollments []groupModel.ClassEnrollmentModel
	if err := db.Where("class_enrollment_id IN ?", enrollmentIDs).Find(&enrollments).Error; err != nil {
		return nil, err
	}
	enrByID := make(map[uuid.UUID]groupModel.ClassEnrollmentModel, len(enrollments))
	for _, e := range enrollments {
		enrByID[e.ClassEnrollmentID] = e
	}

	var observations []attModel.AttendanceObservationModel
	if err := db.Where("attendance_observation_record_id IN ?", recordIDs).
		Order("attendance_observation_created_at DESC").
		Find(&observations).Error; err != nil {
		return nil, err
	}
	obsByRecord := map[uuid.UUID][]attModel.AttendanceObservationModel{}
	for _, o := range observations {
		obsByRecord[o.AttendanceObservationRecordID] = append(obsByRecord[o.AttendanceObservationRecordID], o)
	}

	out := make([]SessionStudent, 0, len(records))
	for _, r := range records {
		e := enrByID[r.AttendanceRecordEnrollmentID]
		out = append(out, SessionStudent{
			Record:       r,
			StudentID:    e.ClassEnrollmentStudentID,
			FullName:     e.ClassEnrollmentStudentNameSnapshot,
			Document:     e.ClassEnrollmentStudentDocumentSnapshot,
			Observations: obsByRecord[r.AttendanceRecordID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

// GetRecord loads one attendance record with its observation log.
func (l *Ledger) GetRecord(ctx context.Context, branchID, recordID uuid.UUID) (*SessionStudent, error) {
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

	var e groupModel.ClassEnrollmentModel
	if err := l.DB.WithContext(ctx).
		Where("class_enrollment_id = ?", rec.AttendanceRecordEnrollmentID).
		Take(&e).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var obs []attModel.AttendanceObservationModel
	if err := l.DB.WithContext(ctx).
		Where("attendance_observation_record_id = ?", recordID).
		Order("attendance_observation_created_at DESC").
		Find(&obs).Error; err != nil {
		return nil, err
	}

	return &SessionStudent{
		Record:       rec,
		StudentID:    e.ClassEnrollmentStudentID,
		FullName:     e.ClassEnrollmentStudentNameSnapshot,
		Document:     e.ClassEnrollmentStudentDocumentSnapshot,
		Observations: obs,
	}, nil
}
