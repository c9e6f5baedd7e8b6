package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines appointment persistence.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, appt *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Appointment, int, error)
	SearchByReason(ctx context.Context, reason string, limit, offset int) ([]*Appointment, int, error)
	ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*Appointment, int, error)

	// StaffSlotTaken reports whether the staff member has a non-cancelled
	// appointment at exactly the given time, ignoring excludeID.
	StaffSlotTaken(ctx context.Context, staffID uuid.UUID, at time.Time, excludeID uuid.UUID) (bool, error)

	// PatientSlotTaken reports whether the patient has a non-cancelled
	// appointment at exactly the given time, ignoring excludeID.
	PatientSlotTaken(ctx context.Context, patientID uuid.UUID, at time.Time, excludeID uuid.UUID) (bool, error)
}

// PatientRegistry checks patient existence.
type PatientRegistry interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// StaffRegistry checks staff existence.
type StaffRegistry interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// DepartmentRegistry checks department existence.
type DepartmentRegistry interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
