package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	sessModel "academia_backend/internals/features/school/class_sessions/model"
)

/* =========================
   Pending-session finder
========================= */

type PendingSession struct {
	Session     sessModel.ClassSessionModel `json:"session"`
	GroupID     uuid.UUID                   `json:"group_id"`
	GroupName   string                      `json:"group_name"`
	DaysOverdue int                         `json:"days_overdue"`
	IsToday     bool                        `json:"is_today"`
}

type PendingFinder struct {
	DB *gorm.DB
}

func NewPendingFinder(db *gorm.DB) *PendingFinder { return &PendingFinder{DB: db} }

// FindPending lists, across every active group in the branch, the sessions
// still pendiente whose date is on or before asOf, most overdue first.
// asOf is always explicit; the service never reads the wall clock.
func (f *PendingFinder) FindPending(ctx context.Context, branchID uuid.UUID, asOf time.Time) ([]PendingSession, error) {
	asOf = dateOnly(asOf)

	type row struct {
		sessModel.ClassSessionModel
		GroupName string `gorm:"column:class_group_name"`
	}
	var rows []row
	err := f.DB.WithContext(ctx).
		Table("class_sessions").
		Select("class_sessions.*, class_groups.class_group_name").
		Joins("JOIN class_groups ON class_groups.class_group_id = class_sessions.class_session_group_id").
		Where("class_sessions.class_session_branch_id = ?", branchID).
		Where("class_sessions.class_session_status = ?", sessModel.SessionStatusPendiente).
		Where("class_sessions.class_session_date <= ?", asOf).
		Where("class_sessions.class_session_deleted_at IS NULL").
		Where("class_groups.class_group_is_active = ?", true).
		Where("class_groups.class_group_deleted_at IS NULL").
		Order("class_sessions.class_session_date ASC, class_sessions.class_session_number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]PendingSession, 0, len(rows))
	for _, r := range rows {
		d := dateOnly(r.ClassSessionDate)
		out = append(out, PendingSession{
			Session:     r.ClassSessionModel,
			GroupID:     r.ClassSessionGroupID,
			GroupName:   r.GroupName,
			DaysOverdue: int(asOf.Sub(d).Hours() / 24),
			IsToday:     d.Equal(asOf),
		})
	}
	return out, nil
}
