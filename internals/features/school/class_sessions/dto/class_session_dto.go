// file: internals/features/school/class_sessions/dto/class_session_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	sessModel "academia_backend/internals/features/school/class_sessions/model"
	sessService "academia_backend/internals/features/school/class_sessions/service"
)

/* =========================================================
   RESPONSE: class session
========================================================= */

type ClassSessionResponse struct {
	ClassSessionID       uuid.UUID `json:"class_session_id"`
	ClassSessionGroupID  uuid.UUID `json:"class_session_group_id"`
	ClassSessionBranchID uuid.UUID `json:"class_session_branch_id"`

	ClassSessionNumber int    `json:"class_session_number"`
	ClassSessionDate   string `json:"class_session_date"`
	ClassSessionStatus string `json:"class_session_status"`

	ClassSessionSuspensionReason   *string           `json:"class_session_suspension_reason,omitempty"`
	ClassSessionRecurrenceSnapshot datatypes.JSONMap `json:"class_session_recurrence_snapshot,omitempty"`

	ClassSessionCreatedAt time.Time  `json:"class_session_created_at"`
	ClassSessionUpdatedAt *time.Time `json:"class_session_updated_at,omitempty"`
}

func FromClassSessionModel(m sessModel.ClassSessionModel) ClassSessionResponse {
	return ClassSessionResponse{
		ClassSessionID:                 m.ClassSessionID,
		ClassSessionGroupID:            m.ClassSessionGroupID,
		ClassSessionBranchID:           m.ClassSessionBranchID,
		ClassSessionNumber:             m.ClassSessionNumber,
		ClassSessionDate:               m.ClassSessionDate.Format("2006-01-02"),
		ClassSessionStatus:             string(m.ClassSessionStatus),
		ClassSessionSuspensionReason:   m.ClassSessionSuspensionReason,
		ClassSessionRecurrenceSnapshot: m.ClassSessionRecurrenceSnapshot,
		ClassSessionCreatedAt:          m.ClassSessionCreatedAt,
		ClassSessionUpdatedAt:          m.ClassSessionUpdatedAt,
	}
}

func FromClassSessionModels(ms []sessModel.ClassSessionModel) []ClassSessionResponse {
	out := make([]ClassSessionResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromClassSessionModel(m))
	}
	return out
}

/* =========================================================
   RESPONSE: session detail (topics + execution)
========================================================= */

type ClassSessionTopicResponse struct {
	ClassSessionTopicID           uuid.UUID  `json:"class_session_topic_id"`
	ClassSessionTopicCourseID     uuid.UUID  `json:"class_session_topic_course_id"`
	ClassSessionTopicInstructorID *uuid.UUID `json:"class_session_topic_instructor_id,omitempty"`
	ClassSessionTopicTitle        string     `json:"class_session_topic_title"`
	ClassSessionTopicDescription  *string    `json:"class_session_topic_description,omitempty"`
	ClassSessionTopicOrderIndex   int        `json:"class_session_topic_order_index"`
}

func FromClassSessionTopicModel(m sessModel.ClassSessionTopicModel) ClassSessionTopicResponse {
	return ClassSessionTopicResponse{
		ClassSessionTopicID:           m.ClassSessionTopicID,
		ClassSessionTopicCourseID:     m.ClassSessionTopicCourseID,
		ClassSessionTopicInstructorID: m.ClassSessionTopicInstructorID,
		ClassSessionTopicTitle:        m.ClassSessionTopicTitle,
		ClassSessionTopicDescription:  m.ClassSessionTopicDescription,
		ClassSessionTopicOrderIndex:   m.ClassSessionTopicOrderIndex,
	}
}

type ClassSessionExecutionResponse struct {
	ClassSessionExecutionID           uuid.UUID  `json:"class_session_execution_id"`
	ClassSessionExecutionSessionID    uuid.UUID  `json:"class_session_execution_session_id"`
	ClassSessionExecutionInstructorID uuid.UUID  `json:"class_session_execution_instructor_id"`
	ClassSessionExecutionAssistantID  *uuid.UUID `json:"class_session_execution_assistant_id,omitempty"`
	ClassSessionExecutionTopic        *string    `json:"class_session_execution_topic,omitempty"`
	ClassSessionExecutionDate         string     `json:"class_session_execution_date"`
	ClassSessionExecutionNotes        *string    `json:"class_session_execution_notes,omitempty"`
}

func FromClassSessionExecutionModel(m sessModel.ClassSessionExecutionModel) ClassSessionExecutionResponse {
	return ClassSessionExecutionResponse{
		ClassSessionExecutionID:           m.ClassSessionExecutionID,
		ClassSessionExecutionSessionID:    m.ClassSessionExecutionSessionID,
		ClassSessionExecutionInstructorID: m.ClassSessionExecutionInstructorID,
		ClassSessionExecutionAssistantID:  m.ClassSessionExecutionAssistantID,
		ClassSessionExecutionTopic:        m.ClassSessionExecutionTopic,
		ClassSessionExecutionDate:         m.ClassSessionExecutionDate.Format("2006-01-02"),
		ClassSessionExecutionNotes:        m.ClassSessionExecutionNotes,
	}
}

type ClassSessionDetailResponse struct {
	Session   ClassSessionResponse           `json:"session"`
	Topics    []ClassSessionTopicResponse    `json:"topics"`
	Execution *ClassSessionExecutionResponse `json:"execution,omitempty"`
}

/* =========================================================
   REQUEST: execution save
========================================================= */

type SaveExecutionRequest struct {
	ClassSessionExecutionInstructorID uuid.UUID  `json:"class_session_execution_instructor_id" validate:"required"`
	ClassSessionExecutionAssistantID  *uuid.UUID `json:"class_session_execution_assistant_id" validate:"omitempty"`
	ClassSessionExecutionTopic        *string    `json:"class_session_execution_topic" validate:"omitempty,max=255"`
	ClassSessionExecutionDate         string     `json:"class_session_execution_date" validate:"required,datetime=2006-01-02"`
	ClassSessionExecutionNotes        *string    `json:"class_session_execution_notes" validate:"omitempty,max=2000"`
}

func (r SaveExecutionRequest) ToInput() (sessService.ExecutionInput, error) {
	d, err := time.Parse("2006-01-02", r.ClassSessionExecutionDate)
	if err != nil {
		return sessService.ExecutionInput{}, err
	}
	return sessService.ExecutionInput{
		InstructorID: r.ClassSessionExecutionInstructorID,
		AssistantID:  r.ClassSessionExecutionAssistantID,
		Topic:        r.ClassSessionExecutionTopic,
		Date:         d,
		Notes:        r.ClassSessionExecutionNotes,
	}, nil
}

/* =========================================================
   REQUEST: suspend
========================================================= */

type SuspendSessionRequest struct {
	ClassSessionSuspensionReason string `json:"class_session_suspension_reason" validate:"required,min=3,max=500"`
}

/* =========================================================
   RESPONSE: pending sessions
========================================================= */

type PendingSessionResponse struct {
	Session     ClassSessionResponse `json:"session"`
	GroupID     uuid.UUID            `json:"group_id"`
	GroupName   string               `json:"group_name"`
	DaysOverdue int                  `json:"days_overdue"`
	IsToday     bool                 `json:"is_today"`
}

func FromPendingSessions(ps []sessService.PendingSession) []PendingSessionResponse {
	out := make([]PendingSessionResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, PendingSessionResponse{
			Session:     FromClassSessionModel(p.Session),
			GroupID:     p.GroupID,
			GroupName:   p.GroupName,
			DaysOverdue: p.DaysOverdue,
			IsToday:     p.IsToday,
		})
	}
	return out
}
