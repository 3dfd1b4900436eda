package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	attModel "academia_backend/internals/features/school/attendance/model"
	sessModel "academia_backend/internals/features/school/class_sessions/model"
	groupModel "academia_backend/internals/features/school/groups/model"
)

/* =========================
   Session materializer
========================= */

// Materializer turns a group's recurrence config into its concrete session
// set. Regeneration is transactional: either the whole set is replaced or
// nothing changes.
type Materializer struct {
	DB *gorm.DB
}

func NewMaterializer(db *gorm.DB) *Materializer { return &Materializer{DB: db} }

func buildRecurrenceConfig(g *groupModel.ClassGroupModel) RecurrenceConfig {
	return RecurrenceConfig{
		Frequency:      g.ClassGroupRecurrenceFrequency,
		Interval:       g.ClassGroupRecurrenceInterval,
		DaysOfWeek:     []string(g.ClassGroupRecurrenceDaysOfWeek),
		StartDate:      g.ClassGroupRecurrenceStartDate,
		EndDate:        g.ClassGroupRecurrenceEndDate,
		MaxOccurrences: g.ClassGroupRecurrenceMaxOccur,
	}
}

func recurrenceSnapshot(cfg RecurrenceConfig) datatypes.JSONMap {
	out := datatypes.JSONMap{
		"frequency":  cfg.Frequency,
		"interval":   cfg.Interval,
		"start_date": cfg.StartDate.Format("2006-01-02"),
	}
	if len(cfg.DaysOfWeek) > 0 {
		out["days_of_week"] = cfg.DaysOfWeek
	}
	if cfg.EndDate != nil {
		out["end_date"] = cfg.EndDate.Format("2006-01-02")
	}
	if cfg.MaxOccurrences != nil {
		out["max_occurrences"] = *cfg.MaxOccurrences
	}
	return out
}

// distinctCourseIDs preserves first-seen order of the topic list.
func distinctCourseIDs(topics []groupModel.ClassGroupTopicModel) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	out := make([]uuid.UUID, 0, len(topics))
	for _, t := range topics {
		if !seen[t.ClassGroupTopicCourseID] {
			seen[t.ClassGroupTopicCourseID] = true
			out = append(out, t.ClassGroupTopicCourseID)
		}
	}
	return out
}

func (m *Materializer) loadGroup(ctx context.Context, branchID, groupID uuid.UUID) (*groupModel.ClassGroupModel, error) {
	var g groupModel.ClassGroupModel
	err := m.DB.WithContext(ctx).
		Where("class_group_id = ? AND class_group_branch_id = ?", groupID, branchID).
		Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (m *Materializer) loadTopics(ctx context.Context, groupID uuid.UUID) ([]groupModel.ClassGroupTopicModel, error) {
	var topics []groupModel.ClassGroupTopicModel
	err := m.DB.WithContext(ctx).
		Where("class_group_topic_group_id = ?", groupID).
		Order("class_group_topic_order_index ASC, class_group_topic_created_at ASC").
		Find(&topics).Error
	return topics, err
}

func (m *Materializer) loadActiveEnrollments(ctx context.Context, groupID uuid.UUID) ([]groupModel.ClassEnrollmentModel, error) {
	var enrs []groupModel.ClassEnrollmentModel
	err := m.DB.WithContext(ctx).
		Where("class_enrollment_group_id = ? AND class_enrollment_is_active = ?", groupID, true).
		Find(&enrs).Error
	return enrs, err
}

// GenerateSchedule replaces the group's session set from its recurrence
// config. Sessions already dictada are immutable anchors: they must form the
// contiguous prefix 1..k and keep their dates; only the remaining sessions
// are reflowed from the regenerated dates. ScheduleLockedError otherwise.
func (m *Materializer) GenerateSchedule(ctx context.Context, branchID, groupID uuid.UUID) ([]sessModel.ClassSessionModel, error) {
	g, err := m.loadGroup(ctx, branchID, groupID)
	if err != nil {
		return nil, err
	}

	cfg := buildRecurrenceConfig(g)
	dates, err := GenerateDates(cfg)
	if err != nil {
		return nil, err
	}

	topics, err := m.loadTopics(ctx, groupID)
	if err != nil {
		return nil, err
	}
	enrollments, err := m.loadActiveEnrollments(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var result []sessModel.ClassSessionModel
	err = m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []sessModel.ClassSessionModel
		if err := tx.
			Where("class_session_group_id = ?", groupID).
			Order("class_session_number ASC").
			Find(&existing).Error; err != nil {
			return err
		}

		// Completed sessions must stay exactly where they are.
		var locked []sessModel.ClassSessionModel
		lockedNumbers := []int{}
		for _, s := range existing {
			if s.ClassSessionStatus == sessModel.SessionStatusDictada {
				locked = append(locked, s)
				lockedNumbers = append(lockedNumbers, s.ClassSessionNumber)
			}
		}
		for i, n := range lockedNumbers {
			if n != i+1 {
				// A dictada session outside the 1..k prefix would have to be
				// renumbered; that is a hard invariant violation.
				return &ScheduleLockedError{GroupID: groupID, LockedNumbers: lockedNumbers}
			}
		}

		var lastLockedDate time.Time
		if len(locked) > 0 {
			lastLockedDate = dateOnly(locked[len(locked)-1].ClassSessionDate)
		}

		// Replacement applies from after the completed prefix onward.
		newDates := make([]time.Time, 0, len(dates))
		for _, d := range dates {
			if len(locked) > 0 && !d.After(lastLockedDate) {
				continue
			}
			newDates = append(newDates, d)
		}

		// Drop every replaceable session together with its dependents.
		replaceableIDs := make([]uuid.UUID, 0, len(existing))
		for _, s := range existing {
			if s.ClassSessionStatus != sessModel.SessionStatusDictada {
				replaceableIDs = append(replaceableIDs, s.ClassSessionID)
			}
		}
		if len(replaceableIDs) > 0 {
			if err := tx.Where("attendance_record_session_id IN ?", replaceableIDs).
				Delete(&attModel.AttendanceRecordModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("class_session_topic_session_id IN ?", replaceableIDs).
				Delete(&sessModel.ClassSessionTopicModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("class_session_execution_session_id IN ?", replaceableIDs).
				Delete(&sessModel.ClassSessionExecutionModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("class_session_id IN ?", replaceableIDs).
				Delete(&sessModel.ClassSessionModel{}).Error; err != nil {
				return err
			}
		}

		snap := recurrenceSnapshot(cfg)
		courseIDs := distinctCourseIDs(topics)
		nextNumber := len(locked) + 1

		for _, d := range newDates {
			sess := sessModel.ClassSessionModel{
				ClassSessionID:                 uuid.New(),
				ClassSessionGroupID:            groupID,
				ClassSessionBranchID:           branchID,
				ClassSessionNumber:             nextNumber,
				ClassSessionDate:               d,
				ClassSessionStatus:             sessModel.SessionStatusPendiente,
				ClassSessionRecurrenceSnapshot: snap,
			}
			if err := tx.Create(&sess).Error; err != nil {
				return err
			}
			nextNumber++

			if err := m.copyTopics(tx, &sess, topics); err != nil {
				return err
			}
			if err := m.fanOutAttendance(tx, &sess, enrollments, courseIDs); err != nil {
				return err
			}
			result = append(result, sess)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Return the full ordered set, completed prefix included.
	var all []sessModel.ClassSessionModel
	if err := m.DB.WithContext(ctx).
		Where("class_session_group_id = ?", groupID).
		Order("class_session_number ASC").
		Find(&all).Error; err != nil {
		return nil, err
	}
	return all, nil
}

func (m *Materializer) copyTopics(tx *gorm.DB, sess *sessModel.ClassSessionModel, topics []groupModel.ClassGroupTopicModel) error {
	for _, t := range topics {
		row := sessModel.ClassSessionTopicModel{
			ClassSessionTopicID:           uuid.New(),
			ClassSessionTopicSessionID:    sess.ClassSessionID,
			ClassSessionTopicBranchID:     sess.ClassSessionBranchID,
			ClassSessionTopicCourseID:     t.ClassGroupTopicCourseID,
			ClassSessionTopicInstructorID: t.ClassGroupTopicInstructorID,
			ClassSessionTopicTitle:        t.ClassGroupTopicTitle,
			ClassSessionTopicDescription:  t.ClassGroupTopicDescription,
			ClassSessionTopicOrderIndex:   t.ClassGroupTopicOrderIndex,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// fanOutAttendance seeds one pendiente record per enrollment per distinct
// course in the session topics. Topicless groups get a single record with a
// nil course.
func (m *Materializer) fanOutAttendance(tx *gorm.DB, sess *sessModel.ClassSessionModel, enrollments []groupModel.ClassEnrollmentModel, courseIDs []uuid.UUID) error {
	for _, e := range enrollments {
		if len(courseIDs) == 0 {
			row := attModel.AttendanceRecordModel{
				AttendanceRecordID:           uuid.New(),
				AttendanceRecordSessionID:    sess.ClassSessionID,
				AttendanceRecordBranchID:     sess.ClassSessionBranchID,
				AttendanceRecordEnrollmentID: e.ClassEnrollmentID,
				AttendanceRecordStatus:       attModel.AttendanceStatusPendiente,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			continue
		}
		for _, cid := range courseIDs {
			c := cid
			row := attModel.AttendanceRecordModel{
				AttendanceRecordID:           uuid.New(),
				AttendanceRecordSessionID:    sess.ClassSessionID,
				AttendanceRecordBranchID:     sess.ClassSessionBranchID,
				AttendanceRecordEnrollmentID: e.ClassEnrollmentID,
				AttendanceRecordCourseID:     &c,
				AttendanceRecordStatus:       attModel.AttendanceStatusPendiente,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// RecalculateDates regenerates the date sequence and remaps it onto the
// existing sessions sorted by number, renumbering them densely 1..N. When the
// regenerated sequence is shorter than the session list the excess sessions
// keep their original dates. Dictada sessions must come out of the remap with
// their number and date intact, otherwise ScheduleLockedError.
func (m *Materializer) RecalculateDates(ctx context.Context, branchID, groupID uuid.UUID) ([]sessModel.ClassSessionModel, error) {
	g, err := m.loadGroup(ctx, branchID, groupID)
	if err != nil {
		return nil, err
	}

	cfg := buildRecurrenceConfig(g)
	dates, err := GenerateDates(cfg)
	if err != nil {
		return nil, err
	}

	var result []sessModel.ClassSessionModel
	err = m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sessions []sessModel.ClassSessionModel
		if err := tx.
			Where("class_session_group_id = ?", groupID).
			Order("class_session_number ASC").
			Find(&sessions).Error; err != nil {
			return err
		}
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].ClassSessionNumber < sessions[j].ClassSessionNumber
		})

		lockedNumbers := []int{}
		for i := range sessions {
			newNumber := i + 1
			newDate := sessions[i].ClassSessionDate
			if i < len(dates) {
				newDate = dates[i]
			}
			if sessions[i].ClassSessionStatus == sessModel.SessionStatusDictada {
				sameDate := dateOnly(sessions[i].ClassSessionDate).Equal(dateOnly(newDate))
				if sessions[i].ClassSessionNumber != newNumber || !sameDate {
					lockedNumbers = append(lockedNumbers, sessions[i].ClassSessionNumber)
				}
			}
		}
		if len(lockedNumbers) > 0 {
			return &ScheduleLockedError{GroupID: groupID, LockedNumbers: lockedNumbers}
		}

		for i := range sessions {
			updates := map[string]any{
				"class_session_number": i + 1,
			}
			if i < len(dates) {
				updates["class_session_date"] = dates[i]
			}
			if err := tx.Model(&sessModel.ClassSessionModel{}).
				Where("class_session_id = ?", sessions[i].ClassSessionID).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		return tx.
			Where("class_session_group_id = ?", groupID).
			Order("class_session_number ASC").
			Find(&result).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
