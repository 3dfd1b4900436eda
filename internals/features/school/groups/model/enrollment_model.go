package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassEnrollmentModel is the membership link between a student and a group.
// Student identity is denormalized as a snapshot so attendance reporting never
// joins the (out-of-scope) student CRUD tables.
type ClassEnrollmentModel struct {
	ClassEnrollmentID       uuid.UUID `gorm:"type:uuid;primaryKey;column:class_enrollment_id" json:"class_enrollment_id"`
	ClassEnrollmentGroupID  uuid.UUID `gorm:"type:uuid;not null;index;column:class_enrollment_group_id" json:"class_enrollment_group_id"`
	ClassEnrollmentBranchID uuid.UUID `gorm:"type:uuid;not null;index;column:class_enrollment_branch_id" json:"class_enrollment_branch_id"`

	ClassEnrollmentStudentID uuid.UUID `gorm:"type:uuid;not null;column:class_enrollment_student_id" json:"class_enrollment_student_id"`

	ClassEnrollmentStudentNameSnapshot     string `gorm:"not null;column:class_enrollment_student_name_snapshot" json:"class_enrollment_student_name_snapshot"`
	ClassEnrollmentStudentDocumentSnapshot string `gorm:"not null;default:'';column:class_enrollment_student_document_snapshot" json:"class_enrollment_student_document_snapshot"`

	ClassEnrollmentIsActive bool `gorm:"not null;default:true;column:class_enrollment_is_active" json:"class_enrollment_is_active"`

	ClassEnrollmentCreatedAt time.Time      `gorm:"column:class_enrollment_created_at;autoCreateTime" json:"class_enrollment_created_at"`
	ClassEnrollmentUpdatedAt *time.Time     `gorm:"column:class_enrollment_updated_at;autoUpdateTime" json:"class_enrollment_updated_at,omitempty"`
	ClassEnrollmentDeletedAt gorm.DeletedAt `gorm:"column:class_enrollment_deleted_at;index" json:"class_enrollment_deleted_at,omitempty"`
}

func (ClassEnrollmentModel) TableName() string { return "class_enrollments" }

func (e *ClassEnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if e.ClassEnrollmentID == uuid.Nil {
		e.ClassEnrollmentID = uuid.New()
	}
	return nil
}
