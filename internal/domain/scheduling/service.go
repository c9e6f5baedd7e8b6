package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

// Service implements appointment booking. Conflict checks run inside a
// transaction when a pool is configured; the partial unique indexes on the
// appointment table close the remaining race between check and insert.
type Service struct {
	appts       Repository
	patients    PatientRegistry
	staff       StaffRegistry
	departments DepartmentRegistry
	pool        *pgxpool.Pool
}

func NewService(repo Repository, patients PatientRegistry, staff StaffRegistry, departments DepartmentRegistry, pool *pgxpool.Pool) *Service {
	return &Service{appts: repo, patients: patients, staff: staff, departments: departments, pool: pool}
}

func (s *Service) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.pool == nil {
		return fn(ctx)
	}
	return db.WithTx(ctx, s.pool, fn)
}

func (s *Service) validateFields(a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient_id is required", ErrInvalidInput)
	}
	if a.StaffID == uuid.Nil {
		return fmt.Errorf("%w: staff_id is required", ErrInvalidInput)
	}
	if a.DateTime.IsZero() {
		return fmt.Errorf("%w: date_time is required", ErrInvalidInput)
	}
	if !a.DateTime.After(time.Now()) {
		return fmt.Errorf("%w: date_time must be in the future", ErrInvalidInput)
	}
	if a.DurationMinutes == 0 {
		a.DurationMinutes = DefaultDurationMinutes
	}
	if a.DurationMinutes < MinDurationMinutes || a.DurationMinutes > MaxDurationMinutes {
		return fmt.Errorf("%w: duration_minutes must be between %d and %d", ErrInvalidInput, MinDurationMinutes, MaxDurationMinutes)
	}
	if a.Reason == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if len(a.Reason) > MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, MaxReasonLength)
	}
	if a.Notes != nil && len(*a.Notes) > MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, MaxNotesLength)
	}
	return nil
}

func (s *Service) validateRefs(ctx context.Context, a *Appointment) error {
	ok, err := s.patients.Exists(ctx, a.PatientID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrPatientNotFound, a.PatientID)
	}
	ok, err = s.staff.Exists(ctx, a.StaffID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrStaffNotFound, a.StaffID)
	}
	if a.DepartmentID != nil {
		ok, err = s.departments.Exists(ctx, *a.DepartmentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrDepartmentNotFound, *a.DepartmentID)
		}
	}
	return nil
}

// CreateAppointment books an appointment. A missing or unrecognized status is
// coerced to SCHEDULED rather than rejected. The staff calendar is checked
// before the patient's, so a slot that conflicts on both sides reports the
// staff conflict.
func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if err := s.validateFields(a); err != nil {
		return err
	}
	if !validStatuses[a.Status] {
		a.Status = StatusScheduled
	}
	if err := s.validateRefs(ctx, a); err != nil {
		return err
	}
	return s.withTx(ctx, func(ctx context.Context) error {
		if a.Status != StatusCancelled {
			taken, err := s.appts.StaffSlotTaken(ctx, a.StaffID, a.DateTime, uuid.Nil)
			if err != nil {
				return err
			}
			if taken {
				return ErrStaffSlotTaken
			}
			taken, err = s.appts.PatientSlotTaken(ctx, a.PatientID, a.DateTime, uuid.Nil)
			if err != nil {
				return err
			}
			if taken {
				return ErrPatientSlotTaken
			}
		}
		return s.appts.Create(ctx, a)
	})
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

// UpdateAppointment applies a partial update. Unlike creation, an invalid
// status here is an error rather than a silent default. When the date-time
// moves, the staff calendar is re-checked with the appointment's own slot
// excluded.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Appointment, error) {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !validStatuses[*req.Status] {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		appt.Status = *req.Status
	}
	refsChanged := false
	if req.PatientID != nil && *req.PatientID != appt.PatientID {
		appt.PatientID = *req.PatientID
		refsChanged = true
	}
	if req.StaffID != nil && *req.StaffID != appt.StaffID {
		appt.StaffID = *req.StaffID
		refsChanged = true
	}
	if req.DepartmentID != nil {
		appt.DepartmentID = req.DepartmentID
		refsChanged = true
	}
	dateChanged := false
	if req.DateTime != nil && !req.DateTime.Equal(appt.DateTime) {
		if !req.DateTime.After(time.Now()) {
			return nil, fmt.Errorf("%w: date_time must be in the future", ErrInvalidInput)
		}
		appt.DateTime = *req.DateTime
		dateChanged = true
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < MinDurationMinutes || *req.DurationMinutes > MaxDurationMinutes {
			return nil, fmt.Errorf("%w: duration_minutes must be between %d and %d", ErrInvalidInput, MinDurationMinutes, MaxDurationMinutes)
		}
		appt.DurationMinutes = *req.DurationMinutes
	}
	if req.Reason != nil {
		if *req.Reason == "" {
			return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
		}
		if len(*req.Reason) > MaxReasonLength {
			return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, MaxReasonLength)
		}
		appt.Reason = *req.Reason
	}
	if req.Notes != nil {
		if len(*req.Notes) > MaxNotesLength {
			return nil, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, MaxNotesLength)
		}
		appt.Notes = req.Notes
	}
	if refsChanged {
		if err := s.validateRefs(ctx, appt); err != nil {
			return nil, err
		}
	}

	err = s.withTx(ctx, func(ctx context.Context) error {
		if dateChanged && appt.Status != StatusCancelled {
			taken, err := s.appts.StaffSlotTaken(ctx, appt.StaffID, appt.DateTime, appt.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrStaffSlotTaken
			}
		}
		return s.appts.Update(ctx, appt)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// UpdateStatus transitions an appointment to a new status. All transitions
// between known statuses are allowed, including reviving a cancelled slot.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	appt.Status = status
	if err := s.appts.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// DeleteAppointment removes an appointment only when the caller supplies the
// exact patient/staff pair the appointment belongs to.
func (s *Service) DeleteAppointment(ctx context.Context, id, patientID, staffID uuid.UUID) error {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if appt.PatientID != patientID || appt.StaffID != staffID {
		return ErrDeleteForbidden
	}
	return s.appts.Delete(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.List(ctx, limit, offset)
}

func (s *Service) ListAppointmentsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListAppointmentsByStaff(ctx context.Context, staffID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByStaff(ctx, staffID, limit, offset)
}

func (s *Service) ListAppointmentsByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByDepartment(ctx, departmentID, limit, offset)
}

func (s *Service) ListAppointmentsByStatus(ctx context.Context, status string, limit, offset int) ([]*Appointment, int, error) {
	if !validStatuses[status] {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.appts.ListByStatus(ctx, status, limit, offset)
}

func (s *Service) SearchAppointmentsByReason(ctx context.Context, reason string, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.SearchByReason(ctx, reason, limit, offset)
}

func (s *Service) ListAppointmentsByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*Appointment, int, error) {
	if to.Before(from) {
		return nil, 0, fmt.Errorf("%w: range end precedes start", ErrInvalidInput)
	}
	return s.appts.ListByDateRange(ctx, from, to, limit, offset)
}
