package service

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func TestGenerateDatesWeeklyJanuary(t *testing.T) {
	// Start on a Wednesday; only Mondays and Thursdays inside January count,
	// and the start date itself is not one of them.
	got, err := GenerateDates(RecurrenceConfig{
		Frequency:  "weekly",
		Interval:   1,
		DaysOfWeek: []string{"monday", "thursday"},
		StartDate:  date(2025, time.January, 1),
		EndDate:    timePtr(date(2025, time.January, 31)),
	})
	if err != nil {
		t.Fatalf("GenerateDates: %v", err)
	}

	want := []time.Time{
		date(2025, time.January, 2),
		date(2025, time.January, 6),
		date(2025, time.January, 9),
		date(2025, time.January, 13),
		date(2025, time.January, 16),
		date(2025, time.January, 20),
		date(2025, time.January, 23),
		date(2025, time.January, 27),
		date(2025, time.January, 30),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d dates, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("date[%d] = %s, want %s", i, got[i].Format("2006-01-02"), want[i].Format("2006-01-02"))
		}
	}
}

func TestGenerateDatesDaily(t *testing.T) {
	tests := []struct {
		name     string
		interval int
		end      *time.Time
		max      *int
		wantLen  int
		wantLast time.Time
	}{
		{
			name:     "every day for one week",
			interval: 1,
			end:      timePtr(date(2025, time.March, 7)),
			wantLen:  7,
			wantLast: date(2025, time.March, 7),
		},
		{
			name:     "every third day",
			interval: 3,
			end:      timePtr(date(2025, time.March, 10)),
			wantLen:  4,
			wantLast: date(2025, time.March, 10),
		},
		{
			name:     "max occurrences wins over end date",
			interval: 1,
			end:      timePtr(date(2025, time.December, 31)),
			max:      intPtr(5),
			wantLen:  5,
			wantLast: date(2025, time.March, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateDates(RecurrenceConfig{
				Frequency:      "daily",
				Interval:       tt.interval,
				StartDate:      date(2025, time.March, 1),
				EndDate:        tt.end,
				MaxOccurrences: tt.max,
			})
			if err != nil {
				t.Fatalf("GenerateDates: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("got %d dates, want %d", len(got), tt.wantLen)
			}
			if !got[0].Equal(date(2025, time.March, 1)) {
				t.Errorf("first date = %s, want start date", got[0].Format("2006-01-02"))
			}
			if !got[len(got)-1].Equal(tt.wantLast) {
				t.Errorf("last date = %s, want %s", got[len(got)-1].Format("2006-01-02"), tt.wantLast.Format("2006-01-02"))
			}
			for i := 1; i < len(got); i++ {
				if step := got[i].Sub(got[i-1]); step != time.Duration(tt.interval)*24*time.Hour {
					t.Errorf("step between %d and %d = %s", i-1, i, step)
				}
			}
		})
	}
}

func TestGenerateDatesMonthlyClampsShortMonths(t *testing.T) {
	got, err := GenerateDates(RecurrenceConfig{
		Frequency:      "monthly",
		Interval:       1,
		StartDate:      date(2025, time.January, 31),
		MaxOccurrences: intPtr(4),
	})
	if err != nil {
		t.Fatalf("GenerateDates: %v", err)
	}
	want := []time.Time{
		date(2025, time.January, 31),
		date(2025, time.February, 28),
		date(2025, time.March, 31),
		date(2025, time.April, 30),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d dates, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("date[%d] = %s, want %s", i, got[i].Format("2006-01-02"), want[i].Format("2006-01-02"))
		}
	}
}

func TestGenerateDatesMonthlyLeapFebruary(t *testing.T) {
	got, err := GenerateDates(RecurrenceConfig{
		Frequency:      "monthly",
		Interval:       1,
		StartDate:      date(2024, time.January, 31),
		MaxOccurrences: intPtr(2),
	})
	if err != nil {
		t.Fatalf("GenerateDates: %v", err)
	}
	if !got[1].Equal(date(2024, time.February, 29)) {
		t.Errorf("leap february clamped to %s, want 2024-02-29", got[1].Format("2006-01-02"))
	}
}

func TestGenerateDatesWeeklyEmptyDaySet(t *testing.T) {
	got, err := GenerateDates(RecurrenceConfig{
		Frequency:  "weekly",
		Interval:   1,
		DaysOfWeek: nil,
		StartDate:  date(2025, time.January, 1),
	})
	if err != nil {
		t.Fatalf("GenerateDates: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("empty day set generated %d dates, want 0", len(got))
	}
}

func TestGenerateDatesUnboundedHitsCap(t *testing.T) {
	got, err := GenerateDates(RecurrenceConfig{
		Frequency: "daily",
		Interval:  1,
		StartDate: date(2025, time.January, 1),
	})
	if err != nil {
		t.Fatalf("GenerateDates: %v", err)
	}
	if len(got) != MaxOccurrenceCap {
		t.Fatalf("unbounded config generated %d dates, want cap %d", len(got), MaxOccurrenceCap)
	}
}

func TestGenerateDatesSortedAscending(t *testing.T) {
	got, err := GenerateDates(RecurrenceConfig{
		Frequency:  "weekly",
		Interval:   2,
		DaysOfWeek: []string{"friday", "tuesday", "sunday"},
		StartDate:  date(2025, time.June, 4),
		EndDate:    timePtr(date(2025, time.August, 31)),
	})
	if err != nil {
		t.Fatalf("GenerateDates: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Before(got[i-1]) {
			t.Fatalf("dates out of order at %d: %s before %s", i,
				got[i].Format("2006-01-02"), got[i-1].Format("2006-01-02"))
		}
	}
}

func TestGenerateDatesValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  RecurrenceConfig
	}{
		{
			name: "missing start date",
			cfg:  RecurrenceConfig{Frequency: "daily", Interval: 1},
		},
		{
			name: "zero interval",
			cfg:  RecurrenceConfig{Frequency: "daily", Interval: 0, StartDate: date(2025, time.January, 1)},
		},
		{
			name: "unknown frequency",
			cfg:  RecurrenceConfig{Frequency: "fortnightly", Interval: 1, StartDate: date(2025, time.January, 1)},
		},
		{
			name: "bad weekday name",
			cfg: RecurrenceConfig{
				Frequency: "weekly", Interval: 1,
				DaysOfWeek: []string{"monday", "someday"},
				StartDate:  date(2025, time.January, 1),
			},
		},
		{
			name: "non-positive max occurrences",
			cfg: RecurrenceConfig{
				Frequency: "daily", Interval: 1,
				StartDate:      date(2025, time.January, 1),
				MaxOccurrences: intPtr(0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateDates(tt.cfg)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("got %v, want *ValidationError", err)
			}
		})
	}
}
