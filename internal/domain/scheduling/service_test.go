package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	appts map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appts[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.appts, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appts {
		items = append(items, a)
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appts {
		if a.PatientID == patientID {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByStaff(_ context.Context, staffID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appts {
		if a.StaffID == staffID {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByDepartment(_ context.Context, departmentID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appts {
		if a.DepartmentID != nil && *a.DepartmentID == departmentID {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByStatus(_ context.Context, status string, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appts {
		if a.Status == status {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) SearchByReason(_ context.Context, reason string, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appts {
		if a.Reason == reason {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByDateRange(_ context.Context, from, to time.Time, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appts {
		if !a.DateTime.Before(from) && !a.DateTime.After(to) {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) StaffSlotTaken(_ context.Context, staffID uuid.UUID, at time.Time, excludeID uuid.UUID) (bool, error) {
	for _, a := range m.appts {
		if a.ID != excludeID && a.StaffID == staffID && a.DateTime.Equal(at) && a.Status != StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) PatientSlotTaken(_ context.Context, patientID uuid.UUID, at time.Time, excludeID uuid.UUID) (bool, error) {
	for _, a := range m.appts {
		if a.ID != excludeID && a.PatientID == patientID && a.DateTime.Equal(at) && a.Status != StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

type mockRegistry struct {
	ids map[uuid.UUID]bool
}

func (m *mockRegistry) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.ids[id], nil
}

type testEnv struct {
	svc       *Service
	repo      *mockRepo
	patientID uuid.UUID
	staffID   uuid.UUID
	deptID    uuid.UUID
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:      newMockRepo(),
		patientID: uuid.New(),
		staffID:   uuid.New(),
		deptID:    uuid.New(),
	}
	patients := &mockRegistry{ids: map[uuid.UUID]bool{env.patientID: true}}
	staff := &mockRegistry{ids: map[uuid.UUID]bool{env.staffID: true}}
	departments := &mockRegistry{ids: map[uuid.UUID]bool{env.deptID: true}}
	env.svc = NewService(env.repo, patients, staff, departments, nil)
	return env
}

func (env *testEnv) validAppointment() *Appointment {
	return &Appointment{
		PatientID:       env.patientID,
		StaffID:         env.staffID,
		DateTime:        time.Now().Add(48 * time.Hour).Truncate(time.Minute),
		DurationMinutes: 30,
		Reason:          "annual check-up",
		Status:          StatusScheduled,
	}
}

func TestCreateAppointment(t *testing.T) {
	env := newTestEnv()
	appt := env.validAppointment()
	if err := env.svc.CreateAppointment(context.Background(), appt); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if appt.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
	if appt.Status != StatusScheduled {
		t.Errorf("status = %q, want %q", appt.Status, StatusScheduled)
	}
}

func TestCreateAppointment_DefaultsStatusAndDuration(t *testing.T) {
	env := newTestEnv()
	appt := env.validAppointment()
	appt.Status = "urgent"
	appt.DurationMinutes = 0
	if err := env.svc.CreateAppointment(context.Background(), appt); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if appt.Status != StatusScheduled {
		t.Errorf("unrecognized status should default to %q, got %q", StatusScheduled, appt.Status)
	}
	if appt.DurationMinutes != DefaultDurationMinutes {
		t.Errorf("duration = %d, want default %d", appt.DurationMinutes, DefaultDurationMinutes)
	}
}

func TestCreateAppointment_Validation(t *testing.T) {
	env := newTestEnv()
	longReason := make([]byte, MaxReasonLength+1)
	for i := range longReason {
		longReason[i] = 'x'
	}

	tests := []struct {
		name   string
		mutate func(a *Appointment)
	}{
		{"missing patient", func(a *Appointment) { a.PatientID = uuid.Nil }},
		{"missing staff", func(a *Appointment) { a.StaffID = uuid.Nil }},
		{"missing date", func(a *Appointment) { a.DateTime = time.Time{} }},
		{"past date", func(a *Appointment) { a.DateTime = time.Now().Add(-time.Hour) }},
		{"duration too short", func(a *Appointment) { a.DurationMinutes = 10 }},
		{"duration too long", func(a *Appointment) { a.DurationMinutes = 300 }},
		{"missing reason", func(a *Appointment) { a.Reason = "" }},
		{"reason too long", func(a *Appointment) { a.Reason = string(longReason) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := env.validAppointment()
			tt.mutate(appt)
			if err := env.svc.CreateAppointment(context.Background(), appt); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCreateAppointment_UnknownReferences(t *testing.T) {
	env := newTestEnv()

	appt := env.validAppointment()
	appt.PatientID = uuid.New()
	if err := env.svc.CreateAppointment(context.Background(), appt); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("err = %v, want ErrPatientNotFound", err)
	}

	appt = env.validAppointment()
	appt.StaffID = uuid.New()
	if err := env.svc.CreateAppointment(context.Background(), appt); !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("err = %v, want ErrStaffNotFound", err)
	}

	appt = env.validAppointment()
	unknown := uuid.New()
	appt.DepartmentID = &unknown
	if err := env.svc.CreateAppointment(context.Background(), appt); !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("err = %v, want ErrDepartmentNotFound", err)
	}
}

func TestCreateAppointment_StaffConflict(t *testing.T) {
	env := newTestEnv()
	first := env.validAppointment()
	if err := env.svc.CreateAppointment(context.Background(), first); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	otherPatient := uuid.New()
	env.svc.patients.(*mockRegistry).ids[otherPatient] = true
	second := env.validAppointment()
	second.PatientID = otherPatient
	if err := env.svc.CreateAppointment(context.Background(), second); !errors.Is(err, ErrStaffSlotTaken) {
		t.Errorf("err = %v, want ErrStaffSlotTaken", err)
	}
}

func TestCreateAppointment_PatientConflict(t *testing.T) {
	env := newTestEnv()
	first := env.validAppointment()
	if err := env.svc.CreateAppointment(context.Background(), first); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	otherStaff := uuid.New()
	env.svc.staff.(*mockRegistry).ids[otherStaff] = true
	second := env.validAppointment()
	second.StaffID = otherStaff
	if err := env.svc.CreateAppointment(context.Background(), second); !errors.Is(err, ErrPatientSlotTaken) {
		t.Errorf("err = %v, want ErrPatientSlotTaken", err)
	}
}

func TestCreateAppointment_CancelledSlotIsFree(t *testing.T) {
	env := newTestEnv()
	first := env.validAppointment()
	if err := env.svc.CreateAppointment(context.Background(), first); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if _, err := env.svc.UpdateStatus(context.Background(), first.ID, StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	second := env.validAppointment()
	if err := env.svc.CreateAppointment(context.Background(), second); err != nil {
		t.Errorf("slot held by a cancelled appointment should be bookable, got %v", err)
	}
}

func TestUpdateAppointment_PartialUpdateKeepsFields(t *testing.T) {
	env := newTestEnv()
	appt := env.validAppointment()
	notes := "bring previous lab results"
	appt.Notes = &notes
	if err := env.svc.CreateAppointment(context.Background(), appt); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	newReason := "follow-up visit"
	updated, err := env.svc.UpdateAppointment(context.Background(), appt.ID, &UpdateRequest{Reason: &newReason})
	if err != nil {
		t.Fatalf("UpdateAppointment: %v", err)
	}
	if updated.Reason != newReason {
		t.Errorf("reason = %q, want %q", updated.Reason, newReason)
	}
	if updated.Notes == nil || *updated.Notes != notes {
		t.Error("notes should be unchanged by a partial update")
	}
	if !updated.DateTime.Equal(appt.DateTime) {
		t.Error("date_time should be unchanged by a partial update")
	}
	if updated.DurationMinutes != appt.DurationMinutes {
		t.Error("duration should be unchanged by a partial update")
	}
}

func TestUpdateAppointment_InvalidStatusRejected(t *testing.T) {
	env := newTestEnv()
	appt := env.validAppointment()
	if err := env.svc.CreateAppointment(context.Background(), appt); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	bad := "urgent"
	if _, err := env.svc.UpdateAppointment(context.Background(), appt.ID, &UpdateRequest{Status: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateAppointment_RescheduleConflict(t *testing.T) {
	env := newTestEnv()
	first := env.validAppointment()
	if err := env.svc.CreateAppointment(context.Background(), first); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	otherPatient := uuid.New()
	env.svc.patients.(*mockRegistry).ids[otherPatient] = true
	second := env.validAppointment()
	second.PatientID = otherPatient
	second.DateTime = first.DateTime.Add(2 * time.Hour)
	if err := env.svc.CreateAppointment(context.Background(), second); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	// Moving the second appointment onto the first one's slot conflicts on
	// the staff calendar.
	conflict := first.DateTime
	if _, err := env.svc.UpdateAppointment(context.Background(), second.ID, &UpdateRequest{DateTime: &conflict}); !errors.Is(err, ErrStaffSlotTaken) {
		t.Errorf("err = %v, want ErrStaffSlotTaken", err)
	}
}

func TestUpdateAppointment_RescheduleExcludesSelf(t *testing.T) {
	env := newTestEnv()
	appt := env.validAppointment()
	if err := env.svc.CreateAppointment(context.Background(), appt); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	// Re-submitting the appointment's own slot must not count as a conflict.
	same := appt.DateTime
	if _, err := env.svc.UpdateAppointment(context.Background(), appt.ID, &UpdateRequest{DateTime: &same}); err != nil {
		t.Errorf("UpdateAppointment: %v", err)
	}

	moved := appt.DateTime.Add(time.Hour)
	updated, err := env.svc.UpdateAppointment(context.Background(), appt.ID, &UpdateRequest{DateTime: &moved})
	if err != nil {
		t.Fatalf("UpdateAppointment: %v", err)
	}
	if !updated.DateTime.Equal(moved) {
		t.Errorf("date_time = %v, want %v", updated.DateTime, moved)
	}
}

func TestUpdateAppointment_NotFound(t *testing.T) {
	env := newTestEnv()
	reason := "follow-up"
	if _, err := env.svc.UpdateAppointment(context.Background(), uuid.New(), &UpdateRequest{Reason: &reason}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv()
	appt := env.validAppointment()
	if err := env.svc.CreateAppointment(context.Background(), appt); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	updated, err := env.svc.UpdateStatus(context.Background(), appt.ID, StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", updated.Status, StatusCompleted)
	}

	if _, err := env.svc.UpdateStatus(context.Background(), appt.ID, "DONE"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDeleteAppointment_Authorization(t *testing.T) {
	env := newTestEnv()
	appt := env.validAppointment()
	if err := env.svc.CreateAppointment(context.Background(), appt); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	if err := env.svc.DeleteAppointment(context.Background(), appt.ID, uuid.New(), appt.StaffID); !errors.Is(err, ErrDeleteForbidden) {
		t.Errorf("wrong patient: err = %v, want ErrDeleteForbidden", err)
	}
	if err := env.svc.DeleteAppointment(context.Background(), appt.ID, appt.PatientID, uuid.New()); !errors.Is(err, ErrDeleteForbidden) {
		t.Errorf("wrong staff: err = %v, want ErrDeleteForbidden", err)
	}
	if _, err := env.svc.GetAppointment(context.Background(), appt.ID); err != nil {
		t.Errorf("appointment should survive refused deletions, got %v", err)
	}

	if err := env.svc.DeleteAppointment(context.Background(), appt.ID, appt.PatientID, appt.StaffID); err != nil {
		t.Fatalf("DeleteAppointment: %v", err)
	}
	if _, err := env.svc.GetAppointment(context.Background(), appt.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListAppointmentsByStatus_InvalidStatus(t *testing.T) {
	env := newTestEnv()
	if _, _, err := env.svc.ListAppointmentsByStatus(context.Background(), "PENDING", 20, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestListAppointmentsByDateRange_InvertedRange(t *testing.T) {
	env := newTestEnv()
	from := time.Now().Add(24 * time.Hour)
	if _, _, err := env.svc.ListAppointmentsByDateRange(context.Background(), from, from.Add(-time.Hour), 20, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestListAppointmentsByPatient(t *testing.T) {
	env := newTestEnv()
	appt := env.validAppointment()
	if err := env.svc.CreateAppointment(context.Background(), appt); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	items, total, err := env.svc.ListAppointmentsByPatient(context.Background(), env.patientID, 20, 0)
	if err != nil {
		t.Fatalf("ListAppointmentsByPatient: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("got %d items (total %d), want 1", len(items), total)
	}
}
