package domain

import "time"

// EmployeeRole enumerates positions in the organizational tree.
type EmployeeRole string

const (
	RoleLineStaff      EmployeeRole = "LINE_STAFF"
	RoleManager        EmployeeRole = "MANAGER"
	RoleDeputyDirector EmployeeRole = "DEPUTY_DIRECTOR"
)

// Valid reports whether the role is one of the known positions.
func (r EmployeeRole) Valid() bool {
	switch r {
	case RoleLineStaff, RoleManager, RoleDeputyDirector:
		return true
	}
	return false
}

// Person is an employee who submits tickets and acts on approvals.
// The supervisor reference forms a forest: LineStaff -> Manager ->
// DeputyDirector, null only at the top of a division tree.
type Person struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Division     string
	Program      string
	Role         EmployeeRole
	SupervisorID *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
