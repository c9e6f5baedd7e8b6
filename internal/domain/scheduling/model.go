// Package scheduling manages clinic appointments: booking, rescheduling,
// status transitions, and conflict detection against staff and patient
// calendars.
package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
	StatusNoShow    = "NO_SHOW"
)

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

// Duration bounds in minutes.
const (
	MinDurationMinutes     = 15
	MaxDurationMinutes     = 240
	DefaultDurationMinutes = 30
)

// Field length limits.
const (
	MaxReasonLength = 500
	MaxNotesLength  = 1500
)

// Appointment is a booked visit between a patient and a staff member at an
// exact date-time. Cancelled appointments keep their slot free for rebooking.
type Appointment struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PatientID       uuid.UUID  `db:"patient_id" json:"patient_id"`
	StaffID         uuid.UUID  `db:"staff_id" json:"staff_id"`
	DepartmentID    *uuid.UUID `db:"department_id" json:"department_id,omitempty"`
	DateTime        time.Time  `db:"date_time" json:"date_time"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	Reason          string     `db:"reason" json:"reason"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	Status          string     `db:"status" json:"status"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// UpdateRequest carries a partial update. Nil fields are left unchanged.
type UpdateRequest struct {
	PatientID       *uuid.UUID `json:"patient_id,omitempty"`
	StaffID         *uuid.UUID `json:"staff_id,omitempty"`
	DepartmentID    *uuid.UUID `json:"department_id,omitempty"`
	DateTime        *time.Time `json:"date_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Reason          *string    `json:"reason,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	Status          *string    `json:"status,omitempty"`
}
