package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionStatusPendiente  SessionStatus = "pendiente"
	SessionStatusDictada    SessionStatus = "dictada"
	SessionStatusSuspendida SessionStatus = "suspendida"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusPendiente, SessionStatusDictada, SessionStatusSuspendida:
		return true
	}
	return false
}

// ClassSessionModel is one dated occurrence of a group's class.
// Numbers are dense and 1-based within a group; regeneration replaces the
// whole set transactionally, never rows one by one.
type ClassSessionModel struct {
	ClassSessionID       uuid.UUID `gorm:"type:uuid;primaryKey;column:class_session_id" json:"class_session_id"`
	ClassSessionGroupID  uuid.UUID `gorm:"type:uuid;not null;index;column:class_session_group_id" json:"class_session_group_id"`
	ClassSessionBranchID uuid.UUID `gorm:"type:uuid;not null;index;column:class_session_branch_id" json:"class_session_branch_id"`

	ClassSessionNumber int           `gorm:"not null;column:class_session_number" json:"class_session_number"`
	ClassSessionDate   time.Time     `gorm:"type:date;not null;column:class_session_date" json:"class_session_date"`
	ClassSessionStatus SessionStatus `gorm:"type:varchar(20);not null;default:'pendiente';column:class_session_status" json:"class_session_status"`

	ClassSessionSuspensionReason *string `gorm:"column:class_session_suspension_reason" json:"class_session_suspension_reason,omitempty"`

	// Snapshot of the recurrence config that produced this row.
	ClassSessionRecurrenceSnapshot datatypes.JSONMap `gorm:"column:class_session_recurrence_snapshot" json:"class_session_recurrence_snapshot,omitempty"`

	ClassSessionCreatedAt time.Time      `gorm:"column:class_session_created_at;autoCreateTime" json:"class_session_created_at"`
	ClassSessionUpdatedAt *time.Time     `gorm:"column:class_session_updated_at;autoUpdateTime" json:"class_session_updated_at,omitempty"`
	ClassSessionDeletedAt gorm.DeletedAt `gorm:"column:class_session_deleted_at;index" json:"class_session_deleted_at,omitempty"`
}

func (ClassSessionModel) TableName() string { return "class_sessions" }

func (s *ClassSessionModel) BeforeCreate(tx *gorm.DB) error {
	if s.ClassSessionID == uuid.Nil {
		s.ClassSessionID = uuid.New()
	}
	return nil
}
