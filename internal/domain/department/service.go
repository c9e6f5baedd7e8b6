package department

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("department not found")
	ErrDuplicateName = errors.New("a department with this name already exists")
	ErrInvalidInput  = errors.New("invalid department input")
)

type Service struct {
	departments Repository
}

func NewService(repo Repository) *Service {
	return &Service{departments: repo}
}

func (s *Service) CreateDepartment(ctx context.Context, d *Department) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return s.departments.Create(ctx, d)
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	return s.departments.GetByID(ctx, id)
}

func (s *Service) GetDepartmentByName(ctx context.Context, name string) (*Department, error) {
	return s.departments.GetByName(ctx, name)
}

func (s *Service) UpdateDepartment(ctx context.Context, d *Department) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := s.departments.GetByID(ctx, d.ID); err != nil {
		return err
	}
	return s.departments.Update(ctx, d)
}

func (s *Service) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.departments.GetByID(ctx, id); err != nil {
		return err
	}
	return s.departments.Delete(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, limit, offset int) ([]*Department, int, error) {
	return s.departments.List(ctx, limit, offset)
}

// Exists reports whether a department with the given id is registered.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.departments.Exists(ctx, id)
}
