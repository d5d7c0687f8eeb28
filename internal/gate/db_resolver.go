package gate

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/models"
)

// DBProfileResolver resolves employee profiles through GORM.
type DBProfileResolver struct {
	DB *gorm.DB
}

// NewDBProfileResolver creates a database-backed resolver.
func NewDBProfileResolver(db *gorm.DB) *DBProfileResolver {
	return &DBProfileResolver{DB: db}
}

// Resolve loads the employee (with role) attached to userID.
// Returns nil, nil when the user is not an employee.
func (r *DBProfileResolver) Resolve(ctx context.Context, userID uint) (Profile, error) {
	var emp models.Employee
	err := r.DB.WithContext(ctx).Preload("Role").Where("user_id = ?", userID).First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employeeProfile{emp: emp}, nil
}

type employeeProfile struct {
	emp models.Employee
}

func (p *employeeProfile) EmployeeID() uint { return p.emp.ID }
func (p *employeeProfile) RoleName() string { return p.emp.Role.Name }

func (p *employeeProfile) HasPermission(name string) bool {
	return p.emp.Role.Permissions.Has(name)
}
