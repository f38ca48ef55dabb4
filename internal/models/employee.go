package models

import "time"

// Employee permissions. An employee holding PermAll passes every check.
const (
	PermAll       = "ALL"
	PermCreate    = "create"
	PermEdit      = "edit"
	PermViewAll   = "view_all"
	PermViewOwn   = "view_own"
	PermAnalytics = "analytics"
	PermExport    = "export"
)

// Employee is a back-office user operating the assessment system.
type Employee struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Not serialized
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Permissions  []string  `json:"permissions"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasPermission reports whether the employee holds perm or the ALL grant.
func (e *Employee) HasPermission(perm string) bool {
	for _, p := range e.Permissions {
		if p == perm || p == PermAll {
			return true
		}
	}
	return false
}
