package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dvanheule/comptoir/internal/auth"
	"github.com/dvanheule/comptoir/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:h_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.ClientRole{}, &models.Client{},
		&models.EmployeeRole{}, &models.Employee{},
		&models.Category{}, &models.Product{},
		&models.Order{}, &models.OrderItem{}, &models.Favorite{},
		&models.Setting{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// seedClientAccount creates a user + client on the "horeca" role.
func seedClientAccount(t *testing.T, db *gorm.DB) (models.User, models.Client) {
	t.Helper()
	role := models.ClientRole{
		Name:         "Horeca",
		Slug:         "horeca",
		DeliveryDays: models.WeekdaySet{time.Tuesday, time.Friday},
	}
	if err := db.Create(&role).Error; err != nil {
		t.Fatal(err)
	}
	hash, err := auth.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatal(err)
	}
	user := models.User{Email: "client@example.com", Password: hash, Active: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	client := models.Client{
		UserID:       user.ID,
		CompanyName:  "Brasserie Midi",
		Locale:       "fr",
		ClientRoleID: role.ID,
	}
	if err := db.Create(&client).Error; err != nil {
		t.Fatal(err)
	}
	return user, client
}

// seedEmployeeAccount creates a user + employee with the given permissions.
func seedEmployeeAccount(t *testing.T, db *gorm.DB, perms models.PermissionSet) (models.User, models.Employee) {
	return seedEmployeeWith(t, db, "staff@example.com", "staff-"+t.Name(), perms)
}

func seedEmployeeWith(t *testing.T, db *gorm.DB, email, roleName string, perms models.PermissionSet) (models.User, models.Employee) {
	t.Helper()
	role := models.EmployeeRole{Name: roleName, Permissions: perms}
	if err := db.Create(&role).Error; err != nil {
		t.Fatal(err)
	}
	user := models.User{Email: email, Password: "x", Active: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	employee := models.Employee{UserID: user.ID, FirstName: "Anna", LastName: "Peeters", EmployeeRoleID: role.ID}
	if err := db.Create(&employee).Error; err != nil {
		t.Fatal(err)
	}
	return user, employee
}

func seedActiveProduct(t *testing.T, db *gorm.DB, sku string, price float64, roles models.RoleSlugs) models.Product {
	t.Helper()
	p := models.Product{
		SKU:            sku,
		Name:           models.LocalizedText{Fr: "Produit " + sku},
		UnitPrice:      price,
		Unit:           "piece",
		VisibleToRoles: roles,
		Active:         true,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatal(err)
	}
	return p
}

// asUser attaches an authenticated user id the way the session
// middleware does.
func asUser(r *http.Request, uid uint) *http.Request {
	return r.WithContext(auth.WithUserID(r.Context(), uid))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
