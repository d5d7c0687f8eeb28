package db

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/auth"
	"github.com/dvanheule/comptoir/internal/config"
	"github.com/dvanheule/comptoir/internal/models"
	"github.com/dvanheule/comptoir/internal/services"
)

// Seed ensures the baseline rows every deployment needs: the admin
// employee role, a default client role and the settings keys. Existing
// rows are never overwritten, so it is safe to run on every startup.
// With DB_SEED=1 a first admin account is created too (ADMIN_EMAIL /
// ADMIN_PASSWORD).
func Seed(db *gorm.DB) error {
	if err := seedEmployeeRoles(db); err != nil {
		return err
	}
	if err := seedClientRoles(db); err != nil {
		return err
	}
	if err := seedSettings(db); err != nil {
		return err
	}
	if config.ParseBool("DB_SEED", false) {
		if err := seedAdminUser(db); err != nil {
			return err
		}
	}
	return nil
}

func seedEmployeeRoles(db *gorm.DB) error {
	roles := []models.EmployeeRole{
		{Name: "admin", Permissions: models.PermissionSet{models.PermSuperAdmin: true}},
		{Name: "order-manager", Permissions: models.PermissionSet{
			models.PermManageOrders:  true,
			models.PermManageClients: true,
		}},
		{Name: "catalog-manager", Permissions: models.PermissionSet{
			models.PermManageProducts:   true,
			models.PermManageCategories: true,
		}},
	}
	for _, role := range roles {
		var existing models.EmployeeRole
		err := db.Where("name = ?", role.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func seedClientRoles(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ClientRole{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	role := models.ClientRole{
		Name: "Standard",
		Slug: "standard",
		// Tuesday and Friday rounds by default.
		DeliveryDays: models.WeekdaySet{time.Tuesday, time.Friday},
	}
	return db.Create(&role).Error
}

func seedSettings(db *gorm.DB) error {
	defaults := map[string]any{
		models.SettingCutoffTime:      services.DefaultCutoffTime,
		models.SettingCutoffDayOffset: services.DefaultCutoffDayOffset,
		models.SettingDefaultLocale:   services.DefaultLocale,
		models.SettingVATRate:         services.DefaultVATRate,
	}
	settings := services.NewSettingsService(db)
	for key, value := range defaults {
		var existing models.Setting
		err := db.First(&existing, "key = ?", key).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := settings.Set(key, value); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func seedAdminUser(db *gorm.DB) error {
	email := envOr("ADMIN_EMAIL", "admin@example.com")
	password := envOr("ADMIN_PASSWORD", "changeme123")

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	var role models.EmployeeRole
	if err := db.Where("name = ?", "admin").First(&role).Error; err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		user := models.User{Email: email, Password: hash, Active: true}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		emp := models.Employee{UserID: user.ID, LastName: "Admin", EmployeeRoleID: role.ID}
		if err := tx.Create(&emp).Error; err != nil {
			return err
		}
		log.Info().Str("email", email).Msg("seeded admin account")
		return nil
	})
}
