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
	sessService "academia_backend/internals/features/school/class_sessions/service"
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

func ctx() context.Context { return context.Background() }

func timePtr(t time.Time) *time.Time { return &t }

type fixture struct {
	db          *gorm.DB
	branchID    uuid.UUID
	group       groupModel.ClassGroupModel
	enrollments []groupModel.ClassEnrollmentModel
	sessions    []sessModel.ClassSessionModel
}

// newLedgerFixture seeds a weekly group (Mondays/Thursdays of January 2025,
// 9 sessions) with named students and optional course topics, then
// materializes the schedule so attendance records exist.
func newLedgerFixture(t *testing.T, studentNames []string, courseIDs []uuid.UUID) *fixture {
	t.Helper()
	db := openTestDB(t)
	branchID := uuid.New()

	g := groupModel.ClassGroupModel{
		ClassGroupBranchID:             branchID,
		ClassGroupName:                 "Grupo B",
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

	f := &fixture{db: db, branchID: branchID, group: g}
	for i, name := range studentNames {
		e := groupModel.ClassEnrollmentModel{
			ClassEnrollmentGroupID:                 g.ClassGroupID,
			ClassEnrollmentBranchID:                branchID,
			ClassEnrollmentStudentID:               uuid.New(),
			ClassEnrollmentStudentNameSnapshot:     name,
			ClassEnrollmentStudentDocumentSnapshot: fmt.Sprintf("DOC-%03d", i+1),
			ClassEnrollmentIsActive:                true,
		}
		if err := db.Create(&e).Error; err != nil {
			t.Fatalf("seed enrollment: %v", err)
		}
		f.enrollments = append(f.enrollments, e)
	}

	for i, cid := range courseIDs {
		topic := groupModel.ClassGroupTopicModel{
			ClassGroupTopicGroupID:    g.ClassGroupID,
			ClassGroupTopicBranchID:   branchID,
			ClassGroupTopicCourseID:   cid,
			ClassGroupTopicTitle:      fmt.Sprintf("Tema %d", i+1),
			ClassGroupTopicOrderIndex: i,
		}
		if err := db.Create(&topic).Error; err != nil {
			t.Fatalf("seed topic: %v", err)
		}
	}

	m := sessService.NewMaterializer(db)
	sessions, err := m.GenerateSchedule(ctx(), branchID, g.ClassGroupID)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	f.sessions = sessions
	return f
}

func (f *fixture) records(t *testing.T, sessionID uuid.UUID) []attModel.AttendanceRecordModel {
	t.Helper()
	var out []attModel.AttendanceRecordModel
	if err := f.db.
		Where("attendance_record_session_id = ?", sessionID).
		Find(&out).Error; err != nil {
		t.Fatalf("load records: %v", err)
	}
	return out
}

// setCell writes one collapsed attendance cell through the ledger ("all
// courses" scope).
func (f *fixture) setCell(t *testing.T, l *Ledger, sessionID, enrollmentID uuid.UUID, status attModel.AttendanceStatus) {
	t.Helper()
	if _, err := l.SetStatus(ctx(), f.branchID, sessionID, enrollmentID, status, nil); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
}
