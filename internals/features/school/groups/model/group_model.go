package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Recurrence frequency values stored on the group.
const (
	RecurrenceFrequencyDaily   = "daily"
	RecurrenceFrequencyWeekly  = "weekly"
	RecurrenceFrequencyMonthly = "monthly"
)

type ClassGroupModel struct {
	ClassGroupID       uuid.UUID `gorm:"type:uuid;primaryKey;column:class_group_id" json:"class_group_id"`
	ClassGroupBranchID uuid.UUID `gorm:"type:uuid;not null;index;column:class_group_branch_id" json:"class_group_branch_id"`

	ClassGroupName     string `gorm:"not null;column:class_group_name" json:"class_group_name"`
	ClassGroupIsActive bool   `gorm:"not null;default:true;column:class_group_is_active" json:"class_group_is_active"`

	// Recurrence config: how the group's schedule expands into dated sessions.
	ClassGroupRecurrenceFrequency  string         `gorm:"not null;column:class_group_recurrence_frequency" json:"class_group_recurrence_frequency"`
	ClassGroupRecurrenceInterval   int            `gorm:"not null;default:1;column:class_group_recurrence_interval" json:"class_group_recurrence_interval"`
	ClassGroupRecurrenceDaysOfWeek pq.StringArray `gorm:"type:text[];column:class_group_recurrence_days_of_week" json:"class_group_recurrence_days_of_week,omitempty"`
	ClassGroupRecurrenceStartDate  time.Time      `gorm:"type:date;not null;column:class_group_recurrence_start_date" json:"class_group_recurrence_start_date"`
	ClassGroupRecurrenceEndDate    *time.Time     `gorm:"type:date;column:class_group_recurrence_end_date" json:"class_group_recurrence_end_date,omitempty"`
	ClassGroupRecurrenceMaxOccur   *int           `gorm:"column:class_group_recurrence_max_occurrences" json:"class_group_recurrence_max_occurrences,omitempty"`

	ClassGroupCreatedAt time.Time      `gorm:"column:class_group_created_at;autoCreateTime" json:"class_group_created_at"`
	ClassGroupUpdatedAt *time.Time     `gorm:"column:class_group_updated_at;autoUpdateTime" json:"class_group_updated_at,omitempty"`
	ClassGroupDeletedAt gorm.DeletedAt `gorm:"column:class_group_deleted_at;index" json:"class_group_deleted_at,omitempty"`
}

func (ClassGroupModel) TableName() string { return "class_groups" }

func (g *ClassGroupModel) BeforeCreate(tx *gorm.DB) error {
	if g.ClassGroupID == uuid.Nil {
		g.ClassGroupID = uuid.New()
	}
	return nil
}
