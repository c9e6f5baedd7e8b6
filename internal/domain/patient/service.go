package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("patient not found")
	ErrDuplicateEmail      = errors.New("a patient with this email already exists")
	ErrDuplicateNationalID = errors.New("a patient with this national id already exists")
	ErrInvalidInput        = errors.New("invalid patient input")
)

type Service struct {
	patients Repository
}

func NewService(repo Repository) *Service {
	return &Service{patients: repo}
}

func (s *Service) validate(p *Patient) error {
	if p.FirstName == "" {
		return fmt.Errorf("%w: first_name is required", ErrInvalidInput)
	}
	if p.LastName == "" {
		return fmt.Errorf("%w: last_name is required", ErrInvalidInput)
	}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if p.NationalID == "" {
		return fmt.Errorf("%w: national_id is required", ErrInvalidInput)
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := s.validate(p); err != nil {
		return err
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetPatientByEmail(ctx context.Context, email string) (*Patient, error) {
	return s.patients.GetByEmail(ctx, email)
}

func (s *Service) GetPatientByNationalID(ctx context.Context, nationalID string) (*Patient, error) {
	return s.patients.GetByNationalID(ctx, nationalID)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if err := s.validate(p); err != nil {
		return err
	}
	if _, err := s.patients.GetByID(ctx, p.ID); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.patients.GetByID(ctx, id); err != nil {
		return err
	}
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) SearchPatientsByName(ctx context.Context, name string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.SearchByName(ctx, name, limit, offset)
}

// Exists reports whether a patient with the given id is registered. It backs
// referential checks from other domains.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.patients.Exists(ctx, id)
}
