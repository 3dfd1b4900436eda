package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassGroupTopicModel is the group's planned topic catalog: one row per
// course (plus optional instructor) taught in the group. Sessions copy these
// at materialization time.
type ClassGroupTopicModel struct {
	ClassGroupTopicID       uuid.UUID `gorm:"type:uuid;primaryKey;column:class_group_topic_id" json:"class_group_topic_id"`
	ClassGroupTopicGroupID  uuid.UUID `gorm:"type:uuid;not null;index;column:class_group_topic_group_id" json:"class_group_topic_group_id"`
	ClassGroupTopicBranchID uuid.UUID `gorm:"type:uuid;not null;column:class_group_topic_branch_id" json:"class_group_topic_branch_id"`

	ClassGroupTopicCourseID     uuid.UUID  `gorm:"type:uuid;not null;column:class_group_topic_course_id" json:"class_group_topic_course_id"`
	ClassGroupTopicInstructorID *uuid.UUID `gorm:"type:uuid;column:class_group_topic_instructor_id" json:"class_group_topic_instructor_id,omitempty"`

	ClassGroupTopicTitle       string  `gorm:"not null;column:class_group_topic_title" json:"class_group_topic_title"`
	ClassGroupTopicDescription *string `gorm:"column:class_group_topic_description" json:"class_group_topic_description,omitempty"`
	ClassGroupTopicOrderIndex  int     `gorm:"not null;default:0;column:class_group_topic_order_index" json:"class_group_topic_order_index"`

	ClassGroupTopicCreatedAt time.Time      `gorm:"column:class_group_topic_created_at;autoCreateTime" json:"class_group_topic_created_at"`
	ClassGroupTopicDeletedAt gorm.DeletedAt `gorm:"column:class_group_topic_deleted_at;index" json:"class_group_topic_deleted_at,omitempty"`
}

func (ClassGroupTopicModel) TableName() string { return "class_group_topics" }

func (t *ClassGroupTopicModel) BeforeCreate(tx *gorm.DB) error {
	if t.ClassGroupTopicID == uuid.Nil {
		t.ClassGroupTopicID = uuid.New()
	}
	return nil
}
