package domain

import "time"

// DiveCenter is the tenant. Every other entity is scoped to exactly one
// center and cross-center reads are reported as not found.
type DiveCenter struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone,omitempty"`
	CreatedOn time.Time `json:"created_on"`
}

type StaffRole string

const (
	StaffRoleAdmin StaffRole = "ADMIN"
	StaffRoleStaff StaffRole = "STAFF"
)

type StaffUser struct {
	ID           int32     `json:"id"`
	CenterID     int32     `json:"center_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         StaffRole `json:"role"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}
