package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	attModel "academia_backend/internals/features/school/attendance/model"
	sessModel "academia_backend/internals/features/school/class_sessions/model"
	groupModel "academia_backend/internals/features/school/groups/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&groupModel.ClassGroupModel{},
		&groupModel.ClassEnrollmentModel{},
		&groupModel.ClassGroupTopicModel{},
		&sessModel.ClassSessionModel{},
		&sessModel.ClassSessionTopicModel{},
		&sessModel.ClassSessionExecutionModel{},
		&attModel.AttendanceRecordModel{},
		&attModel.AttendanceObservationModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	db       *gorm.DB
	branchID uuid.UUID
	group    groupModel.ClassGroupModel
}

// newWeeklyFixture seeds an active group generating Mondays and Thursdays of
// January 2025 (9 dates) with the given enrollments.
func newWeeklyFixture(t *testing.T, students int) *fixture {
	t.Helper()
	db := openTestDB(t)
	branchID := uuid.New()

	g := groupModel.ClassGroupModel{
		ClassGroupBranchID:             branchID,
		ClassGroupName:                 "Grupo A",
		ClassGroupIsActive:             true,
		ClassGroupRecurrenceFrequency:  groupModel.RecurrenceFrequencyWeekly,
		ClassGroupRecurrenceInterval:   1,
		ClassGroupRecurrenceDaysOfWeek: []string{"monday", "thursday"},
		ClassGroupRecurrenceStartDate:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		ClassGroupRecurrenceEndDate:    timePtr(time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)),
	}
	if err := db.Create(&g).Error; err != nil {
		t.Fatalf("seed group: %v", err)
	}

	for i := 0; i < students; i++ {
		e := groupModel.ClassEnrollmentModel{
			ClassEnrollmentGroupID:             g.ClassGroupID,
			ClassEnrollmentBranchID:            branchID,
			ClassEnrollmentStudentID:           uuid.New(),
			ClassEnrollmentStudentNameSnapshot: fmt.Sprintf("Estudiante %02d", i+1),
			ClassEnrollmentIsActive:            true,
		}
		if err := db.Create(&e).Error; err != nil {
			t.Fatalf("seed enrollment: %v", err)
		}
	}

	return &fixture{db: db, branchID: branchID, group: g}
}

func (f *fixture) addTopic(t *testing.T, courseID uuid.UUID, title string, order int) {
	t.Helper()
	topic := groupModel.ClassGroupTopicModel{
		ClassGroupTopicGroupID:    f.group.ClassGroupID,
		ClassGroupTopicBranchID:   f.branchID,
		ClassGroupTopicCourseID:   courseID,
		ClassGroupTopicTitle:      title,
		ClassGroupTopicOrderIndex: order,
	}
	if err := f.db.Create(&topic).Error; err != nil {
		t.Fatalf("seed topic: %v", err)
	}
}

func (f *fixture) sessions(t *testing.T) []sessModel.ClassSessionModel {
	t.Helper()
	var out []sessModel.ClassSessionModel
	if err := f.db.
		Where("class_session_group_id = ?", f.group.ClassGroupID).
		Order("class_session_number ASC").
		Find(&out).Error; err != nil {
		t.Fatalf("load sessions: %v", err)
	}
	return out
}

func (f *fixture) markDictada(t *testing.T, sessionIDs ...uuid.UUID) {
	t.Helper()
	if err := f.db.Model(&sessModel.ClassSessionModel{}).
		Where("class_session_id IN ?", sessionIDs).
		Update("class_session_status", sessModel.SessionStatusDictada).Error; err != nil {
		t.Fatalf("mark dictada: %v", err)
	}
}

func (f *fixture) markAllAttendance(t *testing.T, sessionID uuid.UUID, status attModel.AttendanceStatus) {
	t.Helper()
	if err := f.db.Model(&attModel.AttendanceRecordModel{}).
		Where("attendance_record_session_id = ?", sessionID).
		Update("attendance_record_status", status).Error; err != nil {
		t.Fatalf("mark attendance: %v", err)
	}
}

func ctx() context.Context { return context.Background() }
