package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendanceStatusPendiente   AttendanceStatus = "pendiente"
	AttendanceStatusAsistio     AttendanceStatus = "asistio"
	AttendanceStatusNoAsistio   AttendanceStatus = "no_asistio"
	AttendanceStatusTarde       AttendanceStatus = "tarde"
	AttendanceStatusJustificado AttendanceStatus = "justificado"
	AttendanceStatusPermiso     AttendanceStatus = "permiso"
)

// Flat set: any status may move to any other while the session is open.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPendiente, AttendanceStatusAsistio, AttendanceStatusNoAsistio,
		AttendanceStatusTarde, AttendanceStatusJustificado, AttendanceStatusPermiso:
		return true
	}
	return false
}

// AttendanceRecordModel: one row per (session, enrollment, course credited).
// Single-course groups get a nil course id. Rows are created together with
// the session and frozen once the session is dictada.
type AttendanceRecordModel struct {
	AttendanceRecordID        uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_record_id" json:"attendance_record_id"`
	AttendanceRecordSessionID uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_record_session_id" json:"attendance_record_session_id"`
	AttendanceRecordBranchID  uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_record_branch_id" json:"attendance_record_branch_id"`

	AttendanceRecordEnrollmentID uuid.UUID  `gorm:"type:uuid;not null;index;column:attendance_record_enrollment_id" json:"attendance_record_enrollment_id"`
	AttendanceRecordCourseID     *uuid.UUID `gorm:"type:uuid;column:attendance_record_course_id" json:"attendance_record_course_id,omitempty"`

	AttendanceRecordStatus AttendanceStatus `gorm:"type:varchar(20);not null;default:'pendiente';column:attendance_record_status" json:"attendance_record_status"`

	AttendanceRecordCreatedAt time.Time      `gorm:"column:attendance_record_created_at;autoCreateTime" json:"attendance_record_created_at"`
	AttendanceRecordUpdatedAt *time.Time     `gorm:"column:attendance_record_updated_at;autoUpdateTime" json:"attendance_record_updated_at,omitempty"`
	AttendanceRecordDeletedAt gorm.DeletedAt `gorm:"column:attendance_record_deleted_at;index" json:"attendance_record_deleted_at,omitempty"`
}

func (AttendanceRecordModel) TableName() string { return "attendance_records" }

func (r *AttendanceRecordModel) BeforeCreate(tx *gorm.DB) error {
	if r.AttendanceRecordID == uuid.Nil {
		r.AttendanceRecordID = uuid.New()
	}
	return nil
}
