package db

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dvanheule/comptoir/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:db_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{}, &models.ClientRole{}, &models.Client{},
		&models.EmployeeRole{}, &models.Employee{},
		&models.Category{}, &models.Product{},
		&models.Order{}, &models.OrderItem{}, &models.Favorite{},
		&models.Setting{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return conn
}

func TestSeedIdempotent(t *testing.T) {
	conn := openTestDB(t)
	for i := 0; i < 2; i++ {
		if err := Seed(conn); err != nil {
			t.Fatalf("seed run %d: %v", i+1, err)
		}
	}

	var roles int64
	conn.Model(&models.EmployeeRole{}).Count(&roles)
	if roles != 3 {
		t.Errorf("employee roles = %d, want 3", roles)
	}
	var clientRoles int64
	conn.Model(&models.ClientRole{}).Count(&clientRoles)
	if clientRoles != 1 {
		t.Errorf("client roles = %d, want 1", clientRoles)
	}
	var settings int64
	conn.Model(&models.Setting{}).Count(&settings)
	if settings != 4 {
		t.Errorf("settings = %d, want 4", settings)
	}

	var admin models.EmployeeRole
	if err := conn.Where("name = ?", "admin").First(&admin).Error; err != nil {
		t.Fatal(err)
	}
	if !admin.Permissions.Has(models.PermManageSettings) {
		t.Error("admin role is not a super admin")
	}
}

func TestSeedKeepsCustomizedRows(t *testing.T) {
	conn := openTestDB(t)
	if err := Seed(conn); err != nil {
		t.Fatal(err)
	}

	// An operator edit must survive the next startup seed.
	if err := conn.Model(&models.EmployeeRole{}).Where("name = ?", "order-manager").
		Update("permissions", models.PermissionSet{models.PermManageOrders: true}).Error; err != nil {
		t.Fatal(err)
	}
	if err := Seed(conn); err != nil {
		t.Fatal(err)
	}

	var role models.EmployeeRole
	if err := conn.Where("name = ?", "order-manager").First(&role).Error; err != nil {
		t.Fatal(err)
	}
	if role.Permissions.Has(models.PermManageClients) {
		t.Error("seed overwrote an operator-customized role")
	}
}
