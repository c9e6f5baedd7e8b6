package medicalrecord

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord maps to the medical_record table. One clinical entry per
// patient per record date.
type MedicalRecord struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	StaffID    uuid.UUID `db:"staff_id" json:"staff_id"`
	RecordDate time.Time `db:"record_date" json:"record_date"`
	Diagnosis  string    `db:"diagnosis" json:"diagnosis"`
	Treatment  *string   `db:"treatment" json:"treatment,omitempty"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
