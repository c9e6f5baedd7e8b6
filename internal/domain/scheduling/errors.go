package scheduling

import "errors"

var (
	// ErrNotFound is returned when no appointment exists for the given id.
	ErrNotFound = errors.New("appointment not found")

	// ErrPatientNotFound is returned when the referenced patient does not exist.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrStaffNotFound is returned when the referenced staff member does not exist.
	ErrStaffNotFound = errors.New("medical staff not found")

	// ErrDepartmentNotFound is returned when the referenced department does not exist.
	ErrDepartmentNotFound = errors.New("department not found")

	// ErrStaffSlotTaken is returned when the staff member already has a
	// non-cancelled appointment at the requested time.
	ErrStaffSlotTaken = errors.New("this staff member is already booked at this time")

	// ErrPatientSlotTaken is returned when the patient already has a
	// non-cancelled appointment at the requested time.
	ErrPatientSlotTaken = errors.New("this patient already has an appointment at this time")

	// ErrDeleteForbidden is returned when the caller's patient/staff pair does
	// not match the appointment being deleted.
	ErrDeleteForbidden = errors.New("caller is not authorized to delete this appointment")

	// ErrInvalidInput is returned for validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
