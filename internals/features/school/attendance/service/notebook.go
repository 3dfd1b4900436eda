package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attModel "academia_backend/internals/features/school/attendance/model"
	sessModel "academia_backend/internals/features/school/class_sessions/model"
	sessService "academia_backend/internals/features/school/class_sessions/service"
	groupModel "academia_backend/internals/features/school/groups/model"
)

/* =========================
   Notebook aggregation engine
========================= */

// CriticalThreshold: students below this attendance percentage are flagged.
const CriticalThreshold = 70

const (
	StudentFilterAll      = "all"
	StudentFilterCritical = "critical"
	StudentFilterSearch   = "search"

	SortByName       = "name"
	SortByAttendance = "attendance"
	SortByAbsences   = "absences"
)

type NotebookFilters struct {
	Page            int
	SessionsPerPage int
	StudentFilter   string // all | critical | search
	SearchTerm      string
	SortBy          string // name | attendance | absences
	SortOrder       string // asc | desc
	StartDate       *time.Time
	EndDate         *time.Time
	CourseID        *uuid.UUID
}

func (f *NotebookFilters) normalize() error {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.SessionsPerPage < 1 {
		f.SessionsPerPage = 10
	}
	switch f.StudentFilter {
	case "", StudentFilterAll:
		f.StudentFilter = StudentFilterAll
	case StudentFilterCritical, StudentFilterSearch:
	default:
		return sessService.NewValidationError("student_filter", "debe ser all, critical o search")
	}
	switch f.SortBy {
	case "", SortByName:
		f.SortBy = SortByName
	case SortByAttendance, SortByAbsences:
	default:
		return sessService.NewValidationError("sort_by", "debe ser name, attendance o absences")
	}
	switch strings.ToLower(f.SortOrder) {
	case "", "asc":
		f.SortOrder = "asc"
	case "desc":
		f.SortOrder = "desc"
	default:
		return sessService.NewValidationError("sort_order", "debe ser asc o desc")
	}
	return nil
}

type StudentStats struct {
	Attended   int  `json:"attended"`
	Absences   int  `json:"absences"`
	Late       int  `json:"late"`
	Justified  int  `json:"justified"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"`
	IsCritical bool `json:"is_critical"`
}

type NotebookStudent struct {
	EnrollmentID uuid.UUID                               `json:"enrollment_id"`
	StudentID    uuid.UUID                               `json:"student_id"`
	FullName     string                                  `json:"full_name"`
	Document     string                                  `json:"document"`
	Sessions     map[uuid.UUID]attModel.AttendanceStatus `json:"sessions"`
	Stats        StudentStats                            `json:"stats"`
}

type SessionStat struct {
	Attended   int `json:"attended"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type NotebookSession struct {
	SessionID uuid.UUID               `json:"session_id"`
	Number    int                     `json:"number"`
	Date      time.Time               `json:"date"`
	Status    sessModel.SessionStatus `json:"status"`
	Stat      SessionStat             `json:"stat"`
}

type GlobalStats struct {
	TotalStudents     int `json:"total_students"`
	TotalSessions     int `json:"total_sessions"`
	CompletedSessions int `json:"completed_sessions"`
	AverageAttendance int `json:"average_attendance"`
	CriticalStudents  int `json:"critical_students"`
}

// NotebookView is recomputed on every query and never cached.
type NotebookView struct {
	Students        []NotebookStudent `json:"students"`
	Sessions        []NotebookSession `json:"sessions"`
	Global          GlobalStats       `json:"global"`
	Page            int               `json:"page"`
	TotalPages      int               `json:"total_pages"`
	SessionsPerPage int               `json:"sessions_per_page"`
}

type Notebook struct {
	DB *gorm.DB
}

func NewNotebook(db *gorm.DB) *Notebook { return &Notebook{DB: db} }

// BuildNotebook loads the group's sessions, enrollments and attendance
// records and projects them into the paginated matrix view.
func (n *Notebook) BuildNotebook(ctx context.Context, branchID, groupID uuid.UUID, filters NotebookFilters) (*NotebookView, error) {
	if err := (&filters).normalize(); err != nil {
		return nil, err
	}

	db := n.DB.WithContext(ctx)

	var g groupModel.ClassGroupModel
	err := db.Where("class_group_id = ? AND class_group_branch_id = ?", groupID, branchID).Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, sessService.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sessions []sessModel.ClassSessionModel
	if err := db.Where("class_session_group_id = ?", groupID).
		Order("class_session_number ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	var enrollments []groupModel.ClassEnrollmentModel
	if err := db.Where("class_enrollment_group_id = ? AND class_enrollment_is_active = ?", groupID, true).
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	sessionIDs := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ClassSessionID)
	}
	var records []attModel.AttendanceRecordModel
	if len(sessionIDs) > 0 {
		if err := db.Where("attendance_record_session_id IN ?", sessionIDs).
			Find(&records).Error; err != nil {
			return nil, err
		}
	}

	return computeNotebook(sessions, enrollments, records, filters), nil
}

// statusPrecedence collapses the per-course records of one enrollment in one
// session into a single cell. Higher wins.
func statusPrecedence(s attModel.AttendanceStatus) int {
	switch s {
	case attModel.AttendanceStatusAsistio:
		return 5
	case attModel.AttendanceStatusTarde:
		return 4
	case attModel.AttendanceStatusJustificado:
		return 3
	case attModel.AttendanceStatusPermiso:
		return 2
	case attModel.AttendanceStatusNoAsistio:
		return 1
	default:
		return 0 // pendiente
	}
}

func roundPct(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

type cellKey struct {
	session    uuid.UUID
	enrollment uuid.UUID
}

// computeNotebook is the pure aggregation pipeline. Statistics are computed
// over the whole date-filtered session set; pagination only selects which
// columns are rendered.
func computeNotebook(allSessions []sessModel.ClassSessionModel, enrollments []groupModel.ClassEnrollmentModel, records []attModel.AttendanceRecordModel, f NotebookFilters) *NotebookView {
	// 1) Date window over the ordered session list.
	window := make([]sessModel.ClassSessionModel, 0, len(allSessions))
	for _, s := range allSessions {
		d := truncateDay(s.ClassSessionDate)
		if f.StartDate != nil && d.Before(truncateDay(*f.StartDate)) {
			continue
		}
		if f.EndDate != nil && d.After(truncateDay(*f.EndDate)) {
			continue
		}
		window = append(window, s)
	}

	// 2) Pagination affects visible columns only.
	totalPages := (len(window) + f.SessionsPerPage - 1) / f.SessionsPerPage
	if totalPages < 1 {
		totalPages = 1
	}
	page := f.Page
	if page > totalPages {
		page = totalPages
	}
	lo := (page - 1) * f.SessionsPerPage
	hi := lo + f.SessionsPerPage
	if lo > len(window) {
		lo = len(window)
	}
	if hi > len(window) {
		hi = len(window)
	}
	visible := window[lo:hi]

	// Collapse per-course records into one cell per (session, enrollment).
	cells := map[cellKey]attModel.AttendanceStatus{}
	for _, r := range records {
		if f.CourseID != nil {
			if r.AttendanceRecordCourseID == nil || *r.AttendanceRecordCourseID != *f.CourseID {
				continue
			}
		}
		k := cellKey{session: r.AttendanceRecordSessionID, enrollment: r.AttendanceRecordEnrollmentID}
		if cur, ok := cells[k]; !ok || statusPrecedence(r.AttendanceRecordStatus) > statusPrecedence(cur) {
			cells[k] = r.AttendanceRecordStatus
		}
	}

	cellOf := func(sessionID, enrollmentID uuid.UUID) attModel.AttendanceStatus {
		if st, ok := cells[cellKey{session: sessionID, enrollment: enrollmentID}]; ok {
			return st
		}
		return attModel.AttendanceStatusPendiente
	}

	// 3+4) Per-student stats over the full window, then student filter.
	students := make([]NotebookStudent, 0, len(enrollments))
	for _, e := range enrollments {
		var st StudentStats
		for _, s := range window {
			switch cellOf(s.ClassSessionID, e.ClassEnrollmentID) {
			case attModel.AttendanceStatusAsistio:
				st.Attended++
				st.Total++
			case attModel.AttendanceStatusNoAsistio:
				st.Absences++
				st.Total++
			case attModel.AttendanceStatusTarde:
				st.Late++
				st.Total++
			case attModel.AttendanceStatusJustificado, attModel.AttendanceStatusPermiso:
				st.Justified++
				st.Total++
			}
		}
		st.Percentage = roundPct(st.Attended, st.Total)
		st.IsCritical = st.Percentage < CriticalThreshold

		switch f.StudentFilter {
		case StudentFilterCritical:
			if !st.IsCritical {
				continue
			}
		case StudentFilterSearch:
			term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
			name := strings.ToLower(e.ClassEnrollmentStudentNameSnapshot)
			doc := strings.ToLower(e.ClassEnrollmentStudentDocumentSnapshot)
			if term != "" && !strings.Contains(name, term) && !strings.Contains(doc, term) {
				continue
			}
		}

		cellsVisible := make(map[uuid.UUID]attModel.AttendanceStatus, len(visible))
		for _, s := range visible {
			cellsVisible[s.ClassSessionID] = cellOf(s.ClassSessionID, e.ClassEnrollmentID)
		}
		students = append(students, NotebookStudent{
			EnrollmentID: e.ClassEnrollmentID,
			StudentID:    e.ClassEnrollmentStudentID,
			FullName:     e.ClassEnrollmentStudentNameSnapshot,
			Document:     e.ClassEnrollmentStudentDocumentSnapshot,
			Sessions:     cellsVisible,
			Stats:        st,
		})
	}

	// 5) Sorting, name as tiebreaker.
	asc := f.SortOrder == "asc"
	sort.SliceStable(students, func(i, j int) bool {
		var less bool
		switch f.SortBy {
		case SortByAttendance:
			if students[i].Stats.Percentage == students[j].Stats.Percentage {
				return students[i].FullName < students[j].FullName
			}
			less = students[i].Stats.Percentage < students[j].Stats.Percentage
		case SortByAbsences:
			if students[i].Stats.Absences == students[j].Stats.Absences {
				return students[i].FullName < students[j].FullName
			}
			less = students[i].Stats.Absences < students[j].Stats.Absences
		default:
			if students[i].FullName == students[j].FullName {
				return false
			}
			less = students[i].FullName < students[j].FullName
		}
		if asc {
			return less
		}
		return !less
	})

	// 6) Per-visible-session stats among the retained students.
	out := make([]NotebookSession, 0, len(visible))
	for _, s := range visible {
		var attended int
		for _, stu := range students {
			if cellOf(s.ClassSessionID, stu.EnrollmentID) == attModel.AttendanceStatusAsistio {
				attended++
			}
		}
		out = append(out, NotebookSession{
			SessionID: s.ClassSessionID,
			Number:    s.ClassSessionNumber,
			Date:      s.ClassSessionDate,
			Status:    s.ClassSessionStatus,
			Stat: SessionStat{
				Attended:   attended,
				Total:      len(students),
				Percentage: roundPct(attended, len(students)),
			},
		})
	}

	// 7) Global stats.
	var completed int
	for _, s := range allSessions {
		if s.ClassSessionStatus == sessModel.SessionStatusDictada {
			completed++
		}
	}
	var pctSum, critical int
	for _, stu := range students {
		pctSum += stu.Stats.Percentage
		if stu.Stats.IsCritical {
			critical++
		}
	}
	avg := 0
	if len(students) > 0 {
		avg = int(math.Round(float64(pctSum) / float64(len(students))))
	}

	return &NotebookView{
		Students: students,
		Sessions: out,
		Global: GlobalStats{
			TotalStudents:     len(students),
			TotalSessions:     len(allSessions),
			CompletedSessions: completed,
			AverageAttendance: avg,
			CriticalStudents:  critical,
		},
		Page:            page,
		TotalPages:      totalPages,
		SessionsPerPage: f.SessionsPerPage,
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
