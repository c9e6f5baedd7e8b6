package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clinic/clinic/internal/domain/department"
	"github.com/clinic/clinic/internal/domain/medicalrecord"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/scheduling"
	"github.com/clinic/clinic/internal/domain/staff"
)

func newRecordService() *medicalrecord.Service {
	deptSvc := department.NewService(department.NewRepoPG(globalPool))
	patientSvc := patient.NewService(patient.NewRepoPG(globalPool))
	staffSvc := staff.NewService(staff.NewRepoPG(globalPool), deptSvc)
	return medicalrecord.NewService(medicalrecord.NewRepoPG(globalPool), patientSvc, staffSvc)
}

func TestMedicalRecord_DuplicateDateRejected(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	truncateAll(t, ctx)

	svc := newRecordService()
	alice := createTestPatient(t, ctx, "Alice", "Nguyen")
	doc := createTestStaff(t, ctx, "Dana", "Wirth", staff.RoleDoctor)
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	first := &medicalrecord.MedicalRecord{
		PatientID: alice.ID, StaffID: doc.ID, RecordDate: day, Diagnosis: "bronchitis",
	}
	if err := svc.CreateRecord(ctx, first); err != nil {
		t.Fatalf("first record: %v", err)
	}

	dup := &medicalrecord.MedicalRecord{
		PatientID: alice.ID, StaffID: doc.ID, RecordDate: day, Diagnosis: "revised finding",
	}
	if err := svc.CreateRecord(ctx, dup); !errors.Is(err, medicalrecord.ErrDuplicateRecord) {
		t.Fatalf("duplicate date = %v, want ErrDuplicateRecord", err)
	}
}

func TestMedicalRecord_DeleteOnlyByAuthor(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	truncateAll(t, ctx)

	svc := newRecordService()
	alice := createTestPatient(t, ctx, "Alice", "Nguyen")
	author := createTestStaff(t, ctx, "Dana", "Wirth", staff.RoleDoctor)
	other := createTestStaff(t, ctx, "Omar", "Vance", staff.RoleNurse)

	rec := &medicalrecord.MedicalRecord{
		PatientID:  alice.ID,
		StaffID:    author.ID,
		RecordDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Diagnosis:  "bronchitis",
	}
	if err := svc.CreateRecord(ctx, rec); err != nil {
		t.Fatalf("create record: %v", err)
	}

	if err := svc.DeleteRecord(ctx, rec.ID, other.ID); !errors.Is(err, medicalrecord.ErrDeleteForbidden) {
		t.Fatalf("delete by non-author = %v, want ErrDeleteForbidden", err)
	}
	if err := svc.DeleteRecord(ctx, rec.ID, author.ID); err != nil {
		t.Fatalf("delete by author: %v", err)
	}
}

// Booking and charting share the patient registry; a record for a patient who
// only exists as an appointment reference must still resolve.
func TestMedicalRecord_AfterAppointmentFlow(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	truncateAll(t, ctx)

	apptSvc := newSchedulingService()
	recSvc := newRecordService()
	alice := createTestPatient(t, ctx, "Alice", "Nguyen")
	doc := createTestStaff(t, ctx, "Dana", "Wirth", staff.RoleDoctor)

	appt := &scheduling.Appointment{PatientID: alice.ID, StaffID: doc.ID, DateTime: slotTime(24), Reason: "checkup"}
	if err := apptSvc.CreateAppointment(ctx, appt); err != nil {
		t.Fatalf("booking: %v", err)
	}
	if _, err := apptSvc.UpdateStatus(ctx, appt.ID, scheduling.StatusCompleted); err != nil {
		t.Fatalf("complete appointment: %v", err)
	}

	rec := &medicalrecord.MedicalRecord{
		PatientID:  alice.ID,
		StaffID:    doc.ID,
		RecordDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Diagnosis:  "healthy",
	}
	if err := recSvc.CreateRecord(ctx, rec); err != nil {
		t.Fatalf("create record after visit: %v", err)
	}
}
