package service

import (
	"sort"
	"strings"
	"time"
)

/* =========================
   Recurrence date generator
========================= */

// MaxOccurrenceCap is the absolute safety bound on generated dates. It
// applies even when the config carries neither an end date nor its own
// max_occurrences, so generation always terminates.
const MaxOccurrenceCap = 1000

type RecurrenceConfig struct {
	Frequency      string     // daily | weekly | monthly
	Interval       int        // repeat every N units, >= 1
	DaysOfWeek     []string   // weekly only: "monday".."sunday"
	StartDate      time.Time
	EndDate        *time.Time
	MaxOccurrences *int
}

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GenerateDates expands a recurrence config into the finite, ordered list of
// session dates. Output is strictly non-decreasing and never longer than the
// occurrence limit.
func GenerateDates(cfg RecurrenceConfig) ([]time.Time, error) {
	if cfg.StartDate.IsZero() {
		return nil, NewValidationError("start_date", "es obligatoria")
	}
	if cfg.Interval < 1 {
		return nil, NewValidationError("interval", "debe ser >= 1")
	}
	if cfg.MaxOccurrences != nil && *cfg.MaxOccurrences < 1 {
		return nil, NewValidationError("max_occurrences", "debe ser >= 1")
	}

	limit := MaxOccurrenceCap
	if cfg.MaxOccurrences != nil && *cfg.MaxOccurrences < limit {
		limit = *cfg.MaxOccurrences
	}

	start := dateOnly(cfg.StartDate)
	var end *time.Time
	if cfg.EndDate != nil {
		e := dateOnly(*cfg.EndDate)
		end = &e
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Frequency)) {
	case "daily":
		return generateDaily(start, end, cfg.Interval, limit), nil
	case "weekly":
		days, err := parseWeekdays(cfg.DaysOfWeek)
		if err != nil {
			return nil, err
		}
		return generateWeekly(start, end, cfg.Interval, days, limit), nil
	case "monthly":
		return generateMonthly(start, end, cfg.Interval, limit), nil
	default:
		return nil, NewValidationError("frequency", "debe ser daily, weekly o monthly")
	}
}

func parseWeekdays(names []string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool, len(names))
	for _, n := range names {
		wd, ok := weekdayByName[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, NewValidationError("days_of_week", "día inválido: "+n)
		}
		days[wd] = true
	}
	return days, nil
}

func generateDaily(start time.Time, end *time.Time, interval, limit int) []time.Time {
	out := make([]time.Time, 0, limit)
	for d := start; len(out) < limit; d = d.AddDate(0, 0, interval) {
		if end != nil && d.After(*end) {
			break
		}
		out = append(out, d)
	}
	return out
}

// generateWeekly walks week by week from the Monday of the week containing
// the start date. The occurrence counter advances per emitted date, not per
// week; the week anchor always advances by the full interval regardless of
// how many dates the week produced.
func generateWeekly(start time.Time, end *time.Time, interval int, days map[time.Weekday]bool, limit int) []time.Time {
	// Empty day set can never emit; degenerate but well-defined.
	if len(days) == 0 {
		return []time.Time{}
	}

	anchor := mondayOfWeek(start)
	out := make([]time.Time, 0, limit)
	for len(out) < limit {
		if end != nil && anchor.After(*end) {
			break
		}
		week := make([]time.Time, 0, len(days))
		for i := 0; i < 7; i++ {
			d := anchor.AddDate(0, 0, i)
			if days[d.Weekday()] {
				week = append(week, d)
			}
		}
		sort.Slice(week, func(i, j int) bool { return week[i].Before(week[j]) })
		for _, d := range week {
			if d.Before(start) {
				continue // partial first week
			}
			if end != nil && d.After(*end) {
				continue
			}
			if len(out) >= limit {
				break
			}
			out = append(out, d)
		}
		anchor = anchor.AddDate(0, 0, 7*interval)
	}
	return out
}

func mondayOfWeek(d time.Time) time.Time {
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// generateMonthly advances by whole months preserving the day of month.
// Overflow policy: when the target month is shorter, the date clamps to that
// month's last day (Jan 31 + 1 month -> Feb 28/29). Go's AddDate rollover is
// deliberately not used.
func generateMonthly(start time.Time, end *time.Time, interval, limit int) []time.Time {
	out := make([]time.Time, 0, limit)
	for i := 0; len(out) < limit; i++ {
		d := addMonthsClamped(start, i*interval)
		if end != nil && d.After(*end) {
			break
		}
		out = append(out, d)
	}
	return out
}

func addMonthsClamped(base time.Time, months int) time.Time {
	y, m, day := base.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}
