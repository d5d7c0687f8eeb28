package models

import "time"

// EmployeeRole bundles permissions granted to back-office staff.
type EmployeeRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string        `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Permissions PermissionSet `gorm:"type:text" json:"permissions"`
}

// Employee is a back-office profile referencing its permission role.
type Employee struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	FirstName string `gorm:"size:100" json:"first_name"`
	LastName  string `gorm:"size:100;index" json:"last_name"`

	EmployeeRoleID uint         `gorm:"index;not null" json:"employee_role_id"`
	Role           EmployeeRole `gorm:"foreignKey:EmployeeRoleID" json:"role,omitempty"`
}

// FullName joins first and last name for display and search.
func (e *Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
