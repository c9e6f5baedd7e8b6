package staff

import (
	"context"
	"errors"

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

const staffCols = `id, first_name, last_name, email, license_number, role,
	specialization, phone, department_id, created_at, updated_at`

func scanStaff(row pgx.Row) (*MedicalStaff, error) {
	var m MedicalStaff
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.LicenseNumber, &m.Role,
		&m.Specialization, &m.Phone, &m.DepartmentID, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *MedicalStaff) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_staff (id, first_name, last_name, email, license_number, role,
			specialization, phone, department_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.FirstName, m.LastName, m.Email, m.LicenseNumber, m.Role,
		m.Specialization, m.Phone, m.DepartmentID)
	return mapUniqueErr(err)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalStaff, error) {
	return scanStaff(r.conn(ctx).QueryRow(ctx, `SELECT `+staffCols+` FROM medical_staff WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*MedicalStaff, error) {
	return scanStaff(r.conn(ctx).QueryRow(ctx, `SELECT `+staffCols+` FROM medical_staff WHERE email = $1`, email))
}

func (r *repoPG) GetByLicenseNumber(ctx context.Context, licenseNumber string) (*MedicalStaff, error) {
	return scanStaff(r.conn(ctx).QueryRow(ctx, `SELECT `+staffCols+` FROM medical_staff WHERE license_number = $1`, licenseNumber))
}

func (r *repoPG) Update(ctx context.Context, m *MedicalStaff) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE medical_staff SET first_name=$2, last_name=$3, email=$4, license_number=$5,
			role=$6, specialization=$7, phone=$8, department_id=$9, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.FirstName, m.LastName, m.Email, m.LicenseNumber,
		m.Role, m.Specialization, m.Phone, m.DepartmentID)
	return mapUniqueErr(err)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medical_staff WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*MedicalStaff, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medical_staff`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+staffCols+` FROM medical_staff ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectStaff(rows, total)
}

func (r *repoPG) ListByRole(ctx context.Context, role string, limit, offset int) ([]*MedicalStaff, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medical_staff WHERE role = $1`, role).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+staffCols+` FROM medical_staff WHERE role = $1 ORDER BY last_name, first_name LIMIT $2 OFFSET $3`, role, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectStaff(rows, total)
}

func (r *repoPG) ListBySpecialization(ctx context.Context, specialization string, limit, offset int) ([]*MedicalStaff, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medical_staff WHERE specialization ILIKE $1`, specialization).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+staffCols+` FROM medical_staff WHERE specialization ILIKE $1 ORDER BY last_name, first_name LIMIT $2 OFFSET $3`, specialization, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectStaff(rows, total)
}

func (r *repoPG) ListByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*MedicalStaff, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medical_staff WHERE department_id = $1`, departmentID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+staffCols+` FROM medical_staff WHERE department_id = $1 ORDER BY last_name, first_name LIMIT $2 OFFSET $3`, departmentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectStaff(rows, total)
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM medical_staff WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func collectStaff(rows pgx.Rows, total int) ([]*MedicalStaff, int, error) {
	var items []*MedicalStaff
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

func mapUniqueErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "medical_staff_email_key":
			return ErrDuplicateEmail
		case "medical_staff_license_number_key":
			return ErrDuplicateLicense
		}
	}
	return err
}
