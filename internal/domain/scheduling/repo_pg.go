package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool queryable }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `id, patient_id, staff_id, department_id, date_time,
	duration_minutes, reason, notes, status, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.StaffID, &a.DepartmentID, &a.DateTime,
		&a.DurationMinutes, &a.Reason, &a.Notes, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, patient_id, staff_id, department_id, date_time,
			duration_minutes, reason, notes, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.PatientID, a.StaffID, a.DepartmentID, a.DateTime,
		a.DurationMinutes, a.Reason, a.Notes, a.Status)
	return mapUniqueErr(err)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET patient_id=$2, staff_id=$3, department_id=$4, date_time=$5,
			duration_minutes=$6, reason=$7, notes=$8, status=$9, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.StaffID, a.DepartmentID, a.DateTime,
		a.DurationMinutes, a.Reason, a.Notes, a.Status)
	return mapUniqueErr(err)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return r.listWhere(ctx, ``, nil, limit, offset)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.listWhere(ctx, `WHERE patient_id = $1`, []interface{}{patientID}, limit, offset)
}

func (r *repoPG) ListByStaff(ctx context.Context, staffID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.listWhere(ctx, `WHERE staff_id = $1`, []interface{}{staffID}, limit, offset)
}

func (r *repoPG) ListByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.listWhere(ctx, `WHERE department_id = $1`, []interface{}{departmentID}, limit, offset)
}

func (r *repoPG) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Appointment, int, error) {
	return r.listWhere(ctx, `WHERE status = $1`, []interface{}{status}, limit, offset)
}

func (r *repoPG) SearchByReason(ctx context.Context, reason string, limit, offset int) ([]*Appointment, int, error) {
	return r.listWhere(ctx, `WHERE reason ILIKE $1`, []interface{}{"%" + reason + "%"}, limit, offset)
}

func (r *repoPG) ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*Appointment, int, error) {
	return r.listWhere(ctx, `WHERE date_time BETWEEN $1 AND $2`, []interface{}{from, to}, limit, offset)
}

func (r *repoPG) listWhere(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT `+apptCols+` FROM appointment %s ORDER BY date_time LIMIT $%d OFFSET $%d`,
		where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *repoPG) StaffSlotTaken(ctx context.Context, staffID uuid.UUID, at time.Time, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM appointment
			WHERE staff_id = $1 AND date_time = $2 AND status <> $3 AND id <> $4)`,
		staffID, at, StatusCancelled, excludeID).Scan(&taken)
	return taken, err
}

func (r *repoPG) PatientSlotTaken(ctx context.Context, patientID uuid.UUID, at time.Time, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM appointment
			WHERE patient_id = $1 AND date_time = $2 AND status <> $3 AND id <> $4)`,
		patientID, at, StatusCancelled, excludeID).Scan(&taken)
	return taken, err
}

// mapUniqueErr converts the partial unique indexes that back conflict
// detection into domain errors. The indexes close the race between the
// service-level check and the insert.
func mapUniqueErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "appointment_staff_slot_key":
			return ErrStaffSlotTaken
		case "appointment_patient_slot_key":
			return ErrPatientSlotTaken
		}
	}
	return err
}
