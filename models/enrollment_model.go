package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EnrollmentInProgress = "in-progress"
	EnrollmentApproved   = "approved"
	EnrollmentFailed     = "failed"
	EnrollmentAwaiting   = "awaiting"
)

// Enrollment is owned by the academic side but may be created by the
// reconciliation engine when a paid order has no matching row. The unique
// index on (student_id, discipline_id) is the arbiter between that repair
// path and the ordinary enrollment flow.
type Enrollment struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID      uuid.UUID  `gorm:"not null;uniqueIndex:idx_enrollments_student_discipline" json:"student_id"`
	DisciplineID   uuid.UUID  `gorm:"not null;uniqueIndex:idx_enrollments_student_discipline" json:"discipline_id"`
	AcademicStatus string     `gorm:"size:20;not null;default:'in-progress'" json:"academic_status"`
	Grade          *float64   `gorm:"type:numeric(4,2)" json:"grade"`
	StartedAt      *time.Time `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`

	Student    Student    `gorm:"foreignkey:StudentID" json:"-"`
	Discipline Discipline `gorm:"foreignkey:DisciplineID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
