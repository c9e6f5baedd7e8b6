package medicalrecord

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, rec *MedicalRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)
	Update(ctx context.Context, rec *MedicalRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error)
	SearchByDiagnosis(ctx context.Context, diagnosis string, limit, offset int) ([]*MedicalRecord, int, error)
	ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*MedicalRecord, int, error)
	ExistsByPatientAndDate(ctx context.Context, patientID uuid.UUID, recordDate time.Time, excludeID uuid.UUID) (bool, error)
}
