package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceObservationModel is an append-only note on an attendance record.
// Nil author means system-authored. No update or delete path exists.
type AttendanceObservationModel struct {
	AttendanceObservationID       uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_observation_id" json:"attendance_observation_id"`
	AttendanceObservationRecordID uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_observation_record_id" json:"attendance_observation_record_id"`
	AttendanceObservationBranchID uuid.UUID `gorm:"type:uuid;not null;column:attendance_observation_branch_id" json:"attendance_observation_branch_id"`

	AttendanceObservationContent  string     `gorm:"not null;column:attendance_observation_content" json:"attendance_observation_content"`
	AttendanceObservationAuthorID *uuid.UUID `gorm:"type:uuid;column:attendance_observation_author_id" json:"attendance_observation_author_id,omitempty"`

	AttendanceObservationCreatedAt time.Time `gorm:"column:attendance_observation_created_at;autoCreateTime" json:"attendance_observation_created_at"`
}

func (AttendanceObservationModel) TableName() string { return "attendance_observations" }

func (o *AttendanceObservationModel) BeforeCreate(tx *gorm.DB) error {
	if o.AttendanceObservationID == uuid.Nil {
		o.AttendanceObservationID = uuid.New()
	}
	return nil
}
