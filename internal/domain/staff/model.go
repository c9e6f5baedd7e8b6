package staff

import (
	"time"

	"github.com/google/uuid"
)

// Staff roles.
const (
	RoleDoctor        = "DOCTOR"
	RoleNurse         = "NURSE"
	RoleTechnician    = "TECHNICIAN"
	RoleAdministrator = "ADMINISTRATOR"
)

var validRoles = map[string]bool{
	RoleDoctor: true, RoleNurse: true, RoleTechnician: true, RoleAdministrator: true,
}

// MedicalStaff maps to the medical_staff table.
type MedicalStaff struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	Email          string     `db:"email" json:"email"`
	LicenseNumber  string     `db:"license_number" json:"license_number"`
	Role           string     `db:"role" json:"role"`
	Specialization *string    `db:"specialization" json:"specialization,omitempty"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	DepartmentID   *uuid.UUID `db:"department_id" json:"department_id,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}
