// file: internals/features/school/attendance/dto/attendance_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	attModel "academia_backend/internals/features/school/attendance/model"
	attService "academia_backend/internals/features/school/attendance/service"
)

/* =========================================================
   REQUEST: set attendance status
========================================================= */

// Empty course list means "all courses of the session" (fan-out).
type SetAttendanceStatusRequest struct {
	AttendanceRecordEnrollmentID uuid.UUID   `json:"attendance_record_enrollment_id" validate:"required"`
	AttendanceRecordStatus       string      `json:"attendance_record_status" validate:"required,oneof=pendiente asistio no_asistio tarde justificado permiso"`
	AttendanceRecordCourseIDs    []uuid.UUID `json:"attendance_record_course_ids" validate:"omitempty,dive,required"`
}

/* =========================================================
   REQUEST: add observation
========================================================= */

type AddObservationRequest struct {
	AttendanceObservationContent string `json:"attendance_observation_content" validate:"required,min=1,max=2000"`
}

/* =========================================================
   RESPONSE: attendance records & observations
========================================================= */

type AttendanceObservationResponse struct {
	AttendanceObservationID        uuid.UUID  `json:"attendance_observation_id"`
	AttendanceObservationRecordID  uuid.UUID  `json:"attendance_observation_record_id"`
	AttendanceObservationContent   string     `json:"attendance_observation_content"`
	AttendanceObservationAuthorID  *uuid.UUID `json:"attendance_observation_author_id,omitempty"`
	AttendanceObservationCreatedAt time.Time  `json:"attendance_observation_created_at"`
}

func FromAttendanceObservationModel(m attModel.AttendanceObservationModel) AttendanceObservationResponse {
	return AttendanceObservationResponse{
		AttendanceObservationID:        m.AttendanceObservationID,
		AttendanceObservationRecordID:  m.AttendanceObservationRecordID,
		AttendanceObservationContent:   m.AttendanceObservationContent,
		AttendanceObservationAuthorID:  m.AttendanceObservationAuthorID,
		AttendanceObservationCreatedAt: m.AttendanceObservationCreatedAt,
	}
}

func FromAttendanceObservationModels(ms []attModel.AttendanceObservationModel) []AttendanceObservationResponse {
	out := make([]AttendanceObservationResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromAttendanceObservationModel(m))
	}
	return out
}

type AttendanceRecordResponse struct {
	AttendanceRecordID           uuid.UUID  `json:"attendance_record_id"`
	AttendanceRecordSessionID    uuid.UUID  `json:"attendance_record_session_id"`
	AttendanceRecordEnrollmentID uuid.UUID  `json:"attendance_record_enrollment_id"`
	AttendanceRecordCourseID     *uuid.UUID `json:"attendance_record_course_id,omitempty"`
	AttendanceRecordStatus       string     `json:"attendance_record_status"`
	AttendanceRecordUpdatedAt    *time.Time `json:"attendance_record_updated_at,omitempty"`
}

func FromAttendanceRecordModel(m attModel.AttendanceRecordModel) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		AttendanceRecordID:           m.AttendanceRecordID,
		AttendanceRecordSessionID:    m.AttendanceRecordSessionID,
		AttendanceRecordEnrollmentID: m.AttendanceRecordEnrollmentID,
		AttendanceRecordCourseID:     m.AttendanceRecordCourseID,
		AttendanceRecordStatus:       string(m.AttendanceRecordStatus),
		AttendanceRecordUpdatedAt:    m.AttendanceRecordUpdatedAt,
	}
}

func FromAttendanceRecordModels(ms []attModel.AttendanceRecordModel) []AttendanceRecordResponse {
	out := make([]AttendanceRecordResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromAttendanceRecordModel(m))
	}
	return out
}

/* =========================================================
   RESPONSE: session roster entry
========================================================= */

type SessionStudentResponse struct {
	Record       AttendanceRecordResponse        `json:"record"`
	StudentID    uuid.UUID                       `json:"student_id"`
	FullName     string                          `json:"full_name"`
	Document     string                          `json:"document"`
	Observations []AttendanceObservationResponse `json:"observations"`
}

func FromSessionStudent(s attService.SessionStudent) SessionStudentResponse {
	return SessionStudentResponse{
		Record:       FromAttendanceRecordModel(s.Record),
		StudentID:    s.StudentID,
		FullName:     s.FullName,
		Document:     s.Document,
		Observations: FromAttendanceObservationModels(s.Observations),
	}
}

func FromSessionStudents(ss []attService.SessionStudent) []SessionStudentResponse {
	out := make([]SessionStudentResponse, 0, len(ss))
	for _, s := range ss {
		out = append(out, FromSessionStudent(s))
	}
	return out
}
