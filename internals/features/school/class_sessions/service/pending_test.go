package service

import (
	"testing"
	"time"

	attModel "academia_backend/internals/features/school/attendance/model"
)

func TestFindPendingOrdersMostOverdueFirst(t *testing.T) {
	f := newWeeklyFixture(t, 1)
	generateFixtureSchedule(t, f)

	// As of Jan 13 the sessions dated Jan 2, 6, 9 and 13 are due.
	asOf := time.Date(2025, time.January, 13, 15, 30, 0, 0, time.UTC)
	finder := NewPendingFinder(f.db)

	pending, err := finder.FindPending(ctx(), f.branchID, asOf)
	if err != nil {
		t.Fatalf("FindPending: %v", err)
	}
	if len(pending) != 4 {
		t.Fatalf("got %d pending sessions, want 4", len(pending))
	}

	wantOverdue := []int{11, 7, 4, 0}
	for i, p := range pending {
		if p.DaysOverdue != wantOverdue[i] {
			t.Errorf("pending[%d].DaysOverdue = %d, want %d", i, p.DaysOverdue, wantOverdue[i])
		}
		if p.GroupName != "Grupo A" {
			t.Errorf("pending[%d].GroupName = %q", i, p.GroupName)
		}
	}
	if !pending[3].IsToday {
		t.Error("session due today not flagged IsToday")
	}
	if pending[0].IsToday {
		t.Error("overdue session flagged IsToday")
	}
}

func TestFindPendingSkipsCompletedAndFutureSessions(t *testing.T) {
	f := newWeeklyFixture(t, 1)
	sessions := generateFixtureSchedule(t, f)

	// Complete the first session; it must drop out of the pending list.
	f.markAllAttendance(t, sessions[0].ClassSessionID, attModel.AttendanceStatusAsistio)
	l := NewLifecycle(f.db)
	if _, err := l.Complete(ctx(), f.branchID, sessions[0].ClassSessionID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	asOf := time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC)
	finder := NewPendingFinder(f.db)
	pending, err := finder.FindPending(ctx(), f.branchID, asOf)
	if err != nil {
		t.Fatalf("FindPending: %v", err)
	}
	// Jan 6 and Jan 9 remain; Jan 2 is dictada, everything later is future.
	if len(pending) != 2 {
		t.Fatalf("got %d pending sessions, want 2", len(pending))
	}
	for _, p := range pending {
		if p.Session.ClassSessionID == sessions[0].ClassSessionID {
			t.Error("dictada session listed as pending")
		}
	}
}

func TestFindPendingIgnoresInactiveGroups(t *testing.T) {
	f := newWeeklyFixture(t, 1)
	generateFixtureSchedule(t, f)

	if err := f.db.Model(&f.group).
		Update("class_group_is_active", false).Error; err != nil {
		t.Fatalf("deactivate group: %v", err)
	}

	finder := NewPendingFinder(f.db)
	pending, err := finder.FindPending(ctx(), f.branchID,
		time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FindPending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("inactive group produced %d pending sessions", len(pending))
	}
}
