package staff

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	staff map[uuid.UUID]*MedicalStaff
}

func newMockRepo() *mockRepo {
	return &mockRepo{staff: make(map[uuid.UUID]*MedicalStaff)}
}

func (m *mockRepo) Create(_ context.Context, s *MedicalStaff) error {
	for _, existing := range m.staff {
		if existing.Email == s.Email {
			return ErrDuplicateEmail
		}
		if existing.LicenseNumber == s.LicenseNumber {
			return ErrDuplicateLicense
		}
	}
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	m.staff[s.ID] = s
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*MedicalStaff, error) {
	s, ok := m.staff[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*MedicalStaff, error) {
	for _, s := range m.staff {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) GetByLicenseNumber(_ context.Context, licenseNumber string) (*MedicalStaff, error) {
	for _, s := range m.staff {
		if s.LicenseNumber == licenseNumber {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, s *MedicalStaff) error {
	m.staff[s.ID] = s
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.staff, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*MedicalStaff, int, error) {
	var result []*MedicalStaff
	for _, s := range m.staff {
		result = append(result, s)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByRole(_ context.Context, role string, limit, offset int) ([]*MedicalStaff, int, error) {
	var result []*MedicalStaff
	for _, s := range m.staff {
		if s.Role == role {
			result = append(result, s)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListBySpecialization(_ context.Context, specialization string, limit, offset int) ([]*MedicalStaff, int, error) {
	var result []*MedicalStaff
	for _, s := range m.staff {
		if s.Specialization != nil && strings.EqualFold(*s.Specialization, specialization) {
			result = append(result, s)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByDepartment(_ context.Context, departmentID uuid.UUID, limit, offset int) ([]*MedicalStaff, int, error) {
	var result []*MedicalStaff
	for _, s := range m.staff {
		if s.DepartmentID != nil && *s.DepartmentID == departmentID {
			result = append(result, s)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.staff[id]
	return ok, nil
}

type mockDeptRegistry struct {
	ids map[uuid.UUID]bool
}

func (m *mockDeptRegistry) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.ids[id], nil
}

func newTestService() *Service {
	return NewService(newMockRepo(), &mockDeptRegistry{ids: make(map[uuid.UUID]bool)})
}

func validStaff() *MedicalStaff {
	return &MedicalStaff{
		FirstName:     "Carla",
		LastName:      "Mendes",
		Email:         "carla.mendes@clinic.example",
		LicenseNumber: "CRM-12345",
		Role:          RoleDoctor,
	}
}

func TestCreateStaff(t *testing.T) {
	svc := newTestService()
	m := validStaff()
	if err := svc.CreateStaff(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreateStaff_InvalidRole(t *testing.T) {
	svc := newTestService()
	m := validStaff()
	m.Role = "WIZARD"
	err := svc.CreateStaff(context.Background(), m)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateStaff_LicenseRequired(t *testing.T) {
	svc := newTestService()
	m := validStaff()
	m.LicenseNumber = ""
	err := svc.CreateStaff(context.Background(), m)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateStaff_UnknownDepartment(t *testing.T) {
	svc := newTestService()
	m := validStaff()
	deptID := uuid.New()
	m.DepartmentID = &deptID
	err := svc.CreateStaff(context.Background(), m)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown department, got %v", err)
	}
}

func TestCreateStaff_KnownDepartment(t *testing.T) {
	deptID := uuid.New()
	svc := NewService(newMockRepo(), &mockDeptRegistry{ids: map[uuid.UUID]bool{deptID: true}})
	m := validStaff()
	m.DepartmentID = &deptID
	if err := svc.CreateStaff(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateStaff_DuplicateLicense(t *testing.T) {
	svc := newTestService()
	if err := svc.CreateStaff(context.Background(), validStaff()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dup := validStaff()
	dup.Email = "other@clinic.example"
	err := svc.CreateStaff(context.Background(), dup)
	if !errors.Is(err, ErrDuplicateLicense) {
		t.Errorf("expected ErrDuplicateLicense, got %v", err)
	}
}

func TestGetStaff_NotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.GetStaff(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetStaffByLicenseNumber(t *testing.T) {
	svc := newTestService()
	m := validStaff()
	svc.CreateStaff(context.Background(), m)

	fetched, err := svc.GetStaffByLicenseNumber(context.Background(), m.LicenseNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched.ID != m.ID {
		t.Error("unexpected ID mismatch")
	}
}

func TestUpdateStaff(t *testing.T) {
	svc := newTestService()
	m := validStaff()
	svc.CreateStaff(context.Background(), m)

	m.Role = RoleNurse
	if err := svc.UpdateStaff(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fetched, _ := svc.GetStaff(context.Background(), m.ID)
	if fetched.Role != RoleNurse {
		t.Errorf("expected NURSE, got %s", fetched.Role)
	}
}

func TestDeleteStaff(t *testing.T) {
	svc := newTestService()
	m := validStaff()
	svc.CreateStaff(context.Background(), m)

	if err := svc.DeleteStaff(context.Background(), m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetStaff(context.Background(), m.ID); !errors.Is(err, ErrNotFound) {
		t.Error("expected ErrNotFound after deletion")
	}
}

func TestListStaffByRole(t *testing.T) {
	svc := newTestService()
	svc.CreateStaff(context.Background(), validStaff())

	items, total, err := svc.ListStaffByRole(context.Background(), RoleDoctor, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("expected 1, got total=%d len=%d", total, len(items))
	}
}

func TestListStaffByRole_InvalidRole(t *testing.T) {
	svc := newTestService()
	_, _, err := svc.ListStaffByRole(context.Background(), "WIZARD", 20, 0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListStaffBySpecialization(t *testing.T) {
	svc := newTestService()
	m := validStaff()
	spec := "cardiology"
	m.Specialization = &spec
	svc.CreateStaff(context.Background(), m)

	items, total, err := svc.ListStaffBySpecialization(context.Background(), "cardiology", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("expected 1, got total=%d len=%d", total, len(items))
	}
}

func TestStaffExists(t *testing.T) {
	svc := newTestService()
	m := validStaff()
	svc.CreateStaff(context.Background(), m)

	ok, err := svc.Exists(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected staff member to exist")
	}
}
