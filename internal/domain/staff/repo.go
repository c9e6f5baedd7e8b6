package staff

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *MedicalStaff) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalStaff, error)
	GetByEmail(ctx context.Context, email string) (*MedicalStaff, error)
	GetByLicenseNumber(ctx context.Context, licenseNumber string) (*MedicalStaff, error)
	Update(ctx context.Context, m *MedicalStaff) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*MedicalStaff, int, error)
	ListByRole(ctx context.Context, role string, limit, offset int) ([]*MedicalStaff, int, error)
	ListBySpecialization(ctx context.Context, specialization string, limit, offset int) ([]*MedicalStaff, int, error)
	ListByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*MedicalStaff, int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
