package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassSessionExecutionModel records what actually happened in a session,
// independent from the planned topics. At most one per session, created
// lazily on first save; frozen once the session is dictada.
type ClassSessionExecutionModel struct {
	ClassSessionExecutionID        uuid.UUID `gorm:"type:uuid;primaryKey;column:class_session_execution_id" json:"class_session_execution_id"`
	ClassSessionExecutionSessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:class_session_execution_session_id" json:"class_session_execution_session_id"`
	ClassSessionExecutionBranchID  uuid.UUID `gorm:"type:uuid;not null;column:class_session_execution_branch_id" json:"class_session_execution_branch_id"`

	ClassSessionExecutionInstructorID uuid.UUID  `gorm:"type:uuid;not null;column:class_session_execution_instructor_id" json:"class_session_execution_instructor_id"`
	ClassSessionExecutionAssistantID  *uuid.UUID `gorm:"type:uuid;column:class_session_execution_assistant_id" json:"class_session_execution_assistant_id,omitempty"`

	ClassSessionExecutionTopic *string   `gorm:"column:class_session_execution_topic" json:"class_session_execution_topic,omitempty"`
	ClassSessionExecutionDate  time.Time `gorm:"type:date;not null;column:class_session_execution_date" json:"class_session_execution_date"`
	ClassSessionExecutionNotes *string   `gorm:"column:class_session_execution_notes" json:"class_session_execution_notes,omitempty"`

	ClassSessionExecutionCreatedAt time.Time      `gorm:"column:class_session_execution_created_at;autoCreateTime" json:"class_session_execution_created_at"`
	ClassSessionExecutionUpdatedAt *time.Time     `gorm:"column:class_session_execution_updated_at;autoUpdateTime" json:"class_session_execution_updated_at,omitempty"`
	ClassSessionExecutionDeletedAt gorm.DeletedAt `gorm:"column:class_session_execution_deleted_at;index" json:"class_session_execution_deleted_at,omitempty"`
}

func (ClassSessionExecutionModel) TableName() string { return "class_session_executions" }

func (e *ClassSessionExecutionModel) BeforeCreate(tx *gorm.DB) error {
	if e.ClassSessionExecutionID == uuid.Nil {
		e.ClassSessionExecutionID = uuid.New()
	}
	return nil
}
