package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("medical staff member not found")
	ErrDuplicateEmail   = errors.New("a staff member with this email already exists")
	ErrDuplicateLicense = errors.New("a staff member with this license number already exists")
	ErrInvalidInput     = errors.New("invalid staff input")
)

// DepartmentRegistry resolves department references without importing the
// department package.
type DepartmentRegistry interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	staff       Repository
	departments DepartmentRegistry
}

func NewService(repo Repository, departments DepartmentRegistry) *Service {
	return &Service{staff: repo, departments: departments}
}

func (s *Service) validate(ctx context.Context, m *MedicalStaff) error {
	if m.FirstName == "" {
		return fmt.Errorf("%w: first_name is required", ErrInvalidInput)
	}
	if m.LastName == "" {
		return fmt.Errorf("%w: last_name is required", ErrInvalidInput)
	}
	if m.Email == "" || !strings.Contains(m.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if m.LicenseNumber == "" {
		return fmt.Errorf("%w: license_number is required", ErrInvalidInput)
	}
	if !validRoles[m.Role] {
		return fmt.Errorf("%w: invalid role: %s", ErrInvalidInput, m.Role)
	}
	if m.DepartmentID != nil {
		ok, err := s.departments.Exists(ctx, *m.DepartmentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: department %s", ErrInvalidInput, m.DepartmentID)
		}
	}
	return nil
}

func (s *Service) CreateStaff(ctx context.Context, m *MedicalStaff) error {
	if err := s.validate(ctx, m); err != nil {
		return err
	}
	return s.staff.Create(ctx, m)
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*MedicalStaff, error) {
	return s.staff.GetByID(ctx, id)
}

func (s *Service) GetStaffByEmail(ctx context.Context, email string) (*MedicalStaff, error) {
	return s.staff.GetByEmail(ctx, email)
}

func (s *Service) GetStaffByLicenseNumber(ctx context.Context, licenseNumber string) (*MedicalStaff, error) {
	return s.staff.GetByLicenseNumber(ctx, licenseNumber)
}

func (s *Service) UpdateStaff(ctx context.Context, m *MedicalStaff) error {
	if err := s.validate(ctx, m); err != nil {
		return err
	}
	if _, err := s.staff.GetByID(ctx, m.ID); err != nil {
		return err
	}
	return s.staff.Update(ctx, m)
}

func (s *Service) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	if _, err := s.staff.GetByID(ctx, id); err != nil {
		return err
	}
	return s.staff.Delete(ctx, id)
}

func (s *Service) ListStaff(ctx context.Context, limit, offset int) ([]*MedicalStaff, int, error) {
	return s.staff.List(ctx, limit, offset)
}

func (s *Service) ListStaffByRole(ctx context.Context, role string, limit, offset int) ([]*MedicalStaff, int, error) {
	if !validRoles[role] {
		return nil, 0, fmt.Errorf("%w: invalid role: %s", ErrInvalidInput, role)
	}
	return s.staff.ListByRole(ctx, role, limit, offset)
}

func (s *Service) ListStaffBySpecialization(ctx context.Context, specialization string, limit, offset int) ([]*MedicalStaff, int, error) {
	return s.staff.ListBySpecialization(ctx, specialization, limit, offset)
}

func (s *Service) ListStaffByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*MedicalStaff, int, error) {
	return s.staff.ListByDepartment(ctx, departmentID, limit, offset)
}

// Exists reports whether a staff member with the given id is registered.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.staff.Exists(ctx, id)
}
