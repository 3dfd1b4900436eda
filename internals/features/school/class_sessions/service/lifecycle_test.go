package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	attModel "academia_backend/internals/features/school/attendance/model"
	sessModel "academia_backend/internals/features/school/class_sessions/model"
)

func generateFixtureSchedule(t *testing.T, f *fixture) []sessModel.ClassSessionModel {
	t.Helper()
	m := NewMaterializer(f.db)
	sessions, err := m.GenerateSchedule(ctx(), f.branchID, f.group.ClassGroupID)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	return sessions
}

func TestCompleteRequiresFullAttendance(t *testing.T) {
	f := newWeeklyFixture(t, 5)
	sessions := generateFixtureSchedule(t, f)
	target := sessions[0]
	l := NewLifecycle(f.db)

	// 4 of 5 marked, one still pendiente.
	var records []attModel.AttendanceRecordModel
	if err := f.db.Where("attendance_record_session_id = ?", target.ClassSessionID).
		Find(&records).Error; err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}
	for _, r := range records[:4] {
		if err := f.db.Model(&attModel.AttendanceRecordModel{}).
			Where("attendance_record_id = ?", r.AttendanceRecordID).
			Update("attendance_record_status", attModel.AttendanceStatusAsistio).Error; err != nil {
			t.Fatalf("mark asistio: %v", err)
		}
	}

	_, err := l.Complete(ctx(), f.branchID, target.ClassSessionID)
	var incErr *IncompleteAttendanceError
	if !errors.As(err, &incErr) {
		t.Fatalf("got %v, want *IncompleteAttendanceError", err)
	}
	if incErr.Pending != 1 {
		t.Errorf("Pending = %d, want 1", incErr.Pending)
	}

	// Mark the last one and complete for real.
	if err := f.db.Model(&attModel.AttendanceRecordModel{}).
		Where("attendance_record_id = ?", records[4].AttendanceRecordID).
		Update("attendance_record_status", attModel.AttendanceStatusNoAsistio).Error; err != nil {
		t.Fatalf("mark no_asistio: %v", err)
	}

	s, err := l.Complete(ctx(), f.branchID, target.ClassSessionID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if s.ClassSessionStatus != sessModel.SessionStatusDictada {
		t.Fatalf("status = %s, want dictada", s.ClassSessionStatus)
	}
}

func TestCompleteTwiceFails(t *testing.T) {
	f := newWeeklyFixture(t, 2)
	sessions := generateFixtureSchedule(t, f)
	target := sessions[0]
	l := NewLifecycle(f.db)

	f.markAllAttendance(t, target.ClassSessionID, attModel.AttendanceStatusAsistio)
	if _, err := l.Complete(ctx(), f.branchID, target.ClassSessionID); err != nil {
		t.Fatalf("first Complete: %v", err)
	}

	_, err := l.Complete(ctx(), f.branchID, target.ClassSessionID)
	var dupErr *AlreadyCompletedError
	if !errors.As(err, &dupErr) {
		t.Fatalf("second Complete: got %v, want *AlreadyCompletedError", err)
	}
}

func TestCompleteSuspendedSessionFails(t *testing.T) {
	f := newWeeklyFixture(t, 1)
	sessions := generateFixtureSchedule(t, f)
	target := sessions[0]
	l := NewLifecycle(f.db)

	f.markAllAttendance(t, target.ClassSessionID, attModel.AttendanceStatusAsistio)
	if _, err := l.Suspend(ctx(), f.branchID, target.ClassSessionID, "feriado nacional"); err != nil {
		t.Fatalf("Suspend: %v", err)
	}

	_, err := l.Complete(ctx(), f.branchID, target.ClassSessionID)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want *ValidationError", err)
	}
}

func TestSuspendAndResume(t *testing.T) {
	f := newWeeklyFixture(t, 1)
	sessions := generateFixtureSchedule(t, f)
	target := sessions[0]
	l := NewLifecycle(f.db)

	if _, err := l.Suspend(ctx(), f.branchID, target.ClassSessionID, ""); err == nil {
		t.Fatal("Suspend with empty reason succeeded")
	}

	s, err := l.Suspend(ctx(), f.branchID, target.ClassSessionID, "corte de luz")
	if err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if s.ClassSessionStatus != sessModel.SessionStatusSuspendida {
		t.Fatalf("status = %s, want suspendida", s.ClassSessionStatus)
	}
	if s.ClassSessionSuspensionReason == nil || *s.ClassSessionSuspensionReason != "corte de luz" {
		t.Fatal("suspension reason not stored")
	}

	s, err = l.Resume(ctx(), f.branchID, target.ClassSessionID)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if s.ClassSessionStatus != sessModel.SessionStatusPendiente {
		t.Fatalf("status = %s, want pendiente", s.ClassSessionStatus)
	}
	if s.ClassSessionSuspensionReason != nil {
		t.Fatal("suspension reason not cleared on resume")
	}
}

func TestSaveExecutionCreateThenUpdate(t *testing.T) {
	f := newWeeklyFixture(t, 1)
	sessions := generateFixtureSchedule(t, f)
	target := sessions[0]
	l := NewLifecycle(f.db)

	instructorID := uuid.New()
	topic := "Fracciones"
	exec, err := l.SaveExecution(ctx(), f.branchID, target.ClassSessionID, ExecutionInput{
		InstructorID: instructorID,
		Topic:        &topic,
		Date:         time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("first SaveExecution: %v", err)
	}

	// Second save updates in place, never creates a sibling row.
	topic2 := "Fracciones y decimales"
	exec2, err := l.SaveExecution(ctx(), f.branchID, target.ClassSessionID, ExecutionInput{
		InstructorID: instructorID,
		Topic:        &topic2,
		Date:         time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("second SaveExecution: %v", err)
	}
	if exec2.ClassSessionExecutionID != exec.ClassSessionExecutionID {
		t.Fatal("second save created a new execution row")
	}
	if exec2.ClassSessionExecutionTopic == nil || *exec2.ClassSessionExecutionTopic != topic2 {
		t.Fatal("topic not updated")
	}

	var n int64
	if err := f.db.Model(&sessModel.ClassSessionExecutionModel{}).
		Where("class_session_execution_session_id = ?", target.ClassSessionID).
		Count(&n).Error; err != nil {
		t.Fatalf("count executions: %v", err)
	}
	if n != 1 {
		t.Fatalf("got %d execution rows, want 1", n)
	}
}

func TestSaveExecutionValidation(t *testing.T) {
	f := newWeeklyFixture(t, 1)
	sessions := generateFixtureSchedule(t, f)
	l := NewLifecycle(f.db)

	tests := []struct {
		name string
		in   ExecutionInput
	}{
		{name: "missing instructor", in: ExecutionInput{Date: time.Now()}},
		{name: "missing date", in: ExecutionInput{InstructorID: uuid.New()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.SaveExecution(ctx(), f.branchID, sessions[0].ClassSessionID, tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("got %v, want *ValidationError", err)
			}
		})
	}
}

func TestDictadaSessionIsFrozen(t *testing.T) {
	f := newWeeklyFixture(t, 1)
	sessions := generateFixtureSchedule(t, f)
	target := sessions[0]
	l := NewLifecycle(f.db)

	f.markAllAttendance(t, target.ClassSessionID, attModel.AttendanceStatusAsistio)
	if _, err := l.Complete(ctx(), f.branchID, target.ClassSessionID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	var lockErr *SessionLockedError

	_, err := l.SaveExecution(ctx(), f.branchID, target.ClassSessionID, ExecutionInput{
		InstructorID: uuid.New(),
		Date:         time.Now(),
	})
	if !errors.As(err, &lockErr) {
		t.Fatalf("SaveExecution on dictada: got %v, want *SessionLockedError", err)
	}

	if _, err := l.Suspend(ctx(), f.branchID, target.ClassSessionID, "tarde"); !errors.As(err, &lockErr) {
		t.Fatalf("Suspend on dictada: got %v, want *SessionLockedError", err)
	}
	if _, err := l.Resume(ctx(), f.branchID, target.ClassSessionID); !errors.As(err, &lockErr) {
		t.Fatalf("Resume on dictada: got %v, want *SessionLockedError", err)
	}
}
