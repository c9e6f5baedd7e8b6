package medicalrecord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("medical record not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrStaffNotFound   = errors.New("medical staff member not found")
	ErrDuplicateRecord = errors.New("this patient already has a record for this date")
	ErrInvalidInput    = errors.New("invalid medical record input")
	ErrDeleteForbidden = errors.New("only the authoring staff member may delete this record")
)

// PatientRegistry and StaffRegistry resolve references without importing the
// owning packages.
type PatientRegistry interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type StaffRegistry interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	records  Repository
	patients PatientRegistry
	staff    StaffRegistry
}

func NewService(repo Repository, patients PatientRegistry, staff StaffRegistry) *Service {
	return &Service{records: repo, patients: patients, staff: staff}
}

func (s *Service) validate(rec *MedicalRecord) error {
	if rec.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient_id is required", ErrInvalidInput)
	}
	if rec.StaffID == uuid.Nil {
		return fmt.Errorf("%w: staff_id is required", ErrInvalidInput)
	}
	if rec.RecordDate.IsZero() {
		return fmt.Errorf("%w: record_date is required", ErrInvalidInput)
	}
	if rec.Diagnosis == "" {
		return fmt.Errorf("%w: diagnosis is required", ErrInvalidInput)
	}
	return nil
}

func (s *Service) CreateRecord(ctx context.Context, rec *MedicalRecord) error {
	if err := s.validate(rec); err != nil {
		return err
	}
	ok, err := s.patients.Exists(ctx, rec.PatientID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrPatientNotFound, rec.PatientID)
	}
	ok, err = s.staff.Exists(ctx, rec.StaffID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrStaffNotFound, rec.StaffID)
	}
	taken, err := s.records.ExistsByPatientAndDate(ctx, rec.PatientID, rec.RecordDate, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateRecord
	}
	return s.records.Create(ctx, rec)
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) UpdateRecord(ctx context.Context, rec *MedicalRecord) error {
	if err := s.validate(rec); err != nil {
		return err
	}
	existing, err := s.records.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}
	if !existing.RecordDate.Equal(rec.RecordDate) {
		taken, err := s.records.ExistsByPatientAndDate(ctx, rec.PatientID, rec.RecordDate, rec.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateRecord
		}
	}
	return s.records.Update(ctx, rec)
}

// DeleteRecord removes a record. Only the staff member who authored the
// record is allowed to delete it.
func (s *Service) DeleteRecord(ctx context.Context, id, requestingStaffID uuid.UUID) error {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.StaffID != requestingStaffID {
		return ErrDeleteForbidden
	}
	return s.records.Delete(ctx, id)
}

func (s *Service) ListRecords(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.records.List(ctx, limit, offset)
}

func (s *Service) ListRecordsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.records.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) SearchRecordsByDiagnosis(ctx context.Context, diagnosis string, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.records.SearchByDiagnosis(ctx, diagnosis, limit, offset)
}

func (s *Service) ListRecordsByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*MedicalRecord, int, error) {
	if to.Before(from) {
		return nil, 0, fmt.Errorf("%w: range end precedes range start", ErrInvalidInput)
	}
	return s.records.ListByDateRange(ctx, from, to, limit, offset)
}
