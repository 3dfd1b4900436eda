package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassSessionTopicModel is a point-in-time copy of a group topic taken when
// the session was materialized. Editing the group's catalog later never
// touches these rows.
type ClassSessionTopicModel struct {
	ClassSessionTopicID        uuid.UUID `gorm:"type:uuid;primaryKey;column:class_session_topic_id" json:"class_session_topic_id"`
	ClassSessionTopicSessionID uuid.UUID `gorm:"type:uuid;not null;index;column:class_session_topic_session_id" json:"class_session_topic_session_id"`
	ClassSessionTopicBranchID  uuid.UUID `gorm:"type:uuid;not null;column:class_session_topic_branch_id" json:"class_session_topic_branch_id"`

	ClassSessionTopicCourseID     uuid.UUID  `gorm:"type:uuid;not null;column:class_session_topic_course_id" json:"class_session_topic_course_id"`
	ClassSessionTopicInstructorID *uuid.UUID `gorm:"type:uuid;column:class_session_topic_instructor_id" json:"class_session_topic_instructor_id,omitempty"`

	ClassSessionTopicTitle       string  `gorm:"not null;column:class_session_topic_title" json:"class_session_topic_title"`
	ClassSessionTopicDescription *string `gorm:"column:class_session_topic_description" json:"class_session_topic_description,omitempty"`
	ClassSessionTopicOrderIndex  int     `gorm:"not null;default:0;column:class_session_topic_order_index" json:"class_session_topic_order_index"`

	ClassSessionTopicCreatedAt time.Time      `gorm:"column:class_session_topic_created_at;autoCreateTime" json:"class_session_topic_created_at"`
	ClassSessionTopicDeletedAt gorm.DeletedAt `gorm:"column:class_session_topic_deleted_at;index" json:"class_session_topic_deleted_at,omitempty"`
}

func (ClassSessionTopicModel) TableName() string { return "class_session_topics" }

func (t *ClassSessionTopicModel) BeforeCreate(tx *gorm.DB) error {
	if t.ClassSessionTopicID == uuid.Nil {
		t.ClassSessionTopicID = uuid.New()
	}
	return nil
}
