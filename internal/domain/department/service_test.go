package department

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	depts map[uuid.UUID]*Department
}

func newMockRepo() *mockRepo {
	return &mockRepo{depts: make(map[uuid.UUID]*Department)}
}

func (m *mockRepo) Create(_ context.Context, d *Department) error {
	for _, existing := range m.depts {
		if strings.EqualFold(existing.Name, d.Name) {
			return ErrDuplicateName
		}
	}
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	m.depts[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Department, error) {
	d, ok := m.depts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockRepo) GetByName(_ context.Context, name string) (*Department, error) {
	for _, d := range m.depts {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, d *Department) error {
	m.depts[d.ID] = d
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.depts, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Department, int, error) {
	var result []*Department
	for _, d := range m.depts {
		result = append(result, d)
	}
	return result, len(result), nil
}

func (m *mockRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.depts[id]
	return ok, nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func TestCreateDepartment(t *testing.T) {
	svc := newTestService()
	d := &Department{Name: "Cardiology"}
	if err := svc.CreateDepartment(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreateDepartment_NameRequired(t *testing.T) {
	svc := newTestService()
	err := svc.CreateDepartment(context.Background(), &Department{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateDepartment_DuplicateName(t *testing.T) {
	svc := newTestService()
	svc.CreateDepartment(context.Background(), &Department{Name: "Cardiology"})
	err := svc.CreateDepartment(context.Background(), &Department{Name: "cardiology"})
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestGetDepartmentByName(t *testing.T) {
	svc := newTestService()
	d := &Department{Name: "Radiology"}
	svc.CreateDepartment(context.Background(), d)

	fetched, err := svc.GetDepartmentByName(context.Background(), "radiology")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched.ID != d.ID {
		t.Error("unexpected ID mismatch")
	}
}

func TestGetDepartment_NotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.GetDepartment(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateDepartment(t *testing.T) {
	svc := newTestService()
	d := &Department{Name: "Cardiology"}
	svc.CreateDepartment(context.Background(), d)

	loc := "Building B"
	d.Location = &loc
	if err := svc.UpdateDepartment(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteDepartment(t *testing.T) {
	svc := newTestService()
	d := &Department{Name: "Cardiology"}
	svc.CreateDepartment(context.Background(), d)

	if err := svc.DeleteDepartment(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetDepartment(context.Background(), d.ID); !errors.Is(err, ErrNotFound) {
		t.Error("expected ErrNotFound after deletion")
	}
}

func TestListDepartments(t *testing.T) {
	svc := newTestService()
	svc.CreateDepartment(context.Background(), &Department{Name: "Cardiology"})
	svc.CreateDepartment(context.Background(), &Department{Name: "Radiology"})

	items, total, err := svc.ListDepartments(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2, got total=%d len=%d", total, len(items))
	}
}
