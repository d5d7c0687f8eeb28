package services

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/models"
)

// Hardcoded fallbacks used when a settings row is absent or unreadable.
const (
	DefaultCutoffTime      = "18:00"
	DefaultCutoffDayOffset = 1
	DefaultLocale          = "fr"
	DefaultVATRate         = 21.0
)

func defaultLocales() map[string]bool {
	return map[string]bool{"fr": true, "nl": true, "en": true}
}

func defaultUnits() map[string]bool {
	return map[string]bool{"piece": true, "kg": true, "box": true, "litre": true}
}

func defaultPermissions() map[string]bool {
	return map[string]bool{
		models.PermManageClients:    true,
		models.PermManageProducts:   true,
		models.PermManageCategories: true,
		models.PermManageOrders:     true,
		models.PermManageEmployees:  true,
		models.PermManageSettings:   true,
	}
}

// SettingsService gives typed access to the key-value settings table.
// Every accessor falls back to a hardcoded default when the row is
// missing or does not parse.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

func (s *SettingsService) raw(key string) (string, bool) {
	var row models.Setting
	if err := s.DB.First(&row, "key = ?", key).Error; err != nil {
		return "", false
	}
	return row.Value, true
}

func (s *SettingsService) unmarshal(key string, out any) bool {
	raw, ok := s.raw(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("unreadable setting, using default")
		return false
	}
	return true
}

// CutoffTime returns the order cutoff as "HH:MM".
func (s *SettingsService) CutoffTime() string {
	var v string
	if s.unmarshal(models.SettingCutoffTime, &v) && v != "" {
		return v
	}
	return DefaultCutoffTime
}

// CutoffDayOffset returns the minimum number of days between order and
// delivery.
func (s *SettingsService) CutoffDayOffset() int {
	var v int
	if s.unmarshal(models.SettingCutoffDayOffset, &v) && v >= 0 {
		return v
	}
	return DefaultCutoffDayOffset
}

// DefaultLocale returns the portal default locale.
func (s *SettingsService) DefaultLocale() string {
	var v string
	if s.unmarshal(models.SettingDefaultLocale, &v) && v != "" {
		return v
	}
	return DefaultLocale
}

// VATRate returns the VAT rate as a percentage (e.g. 21 for 21%).
func (s *SettingsService) VATRate() float64 {
	var v float64
	if s.unmarshal(models.SettingVATRate, &v) && v >= 0 {
		return v
	}
	return DefaultVATRate
}

// AvailableLocales returns the enabled-locale map.
func (s *SettingsService) AvailableLocales() map[string]bool {
	v := map[string]bool{}
	if s.unmarshal(models.SettingLocales, &v) && len(v) > 0 {
		return v
	}
	return defaultLocales()
}

// AvailableUnits returns the enabled-unit map.
func (s *SettingsService) AvailableUnits() map[string]bool {
	v := map[string]bool{}
	if s.unmarshal(models.SettingUnits, &v) && len(v) > 0 {
		return v
	}
	return defaultUnits()
}

// AvailablePermissions returns the enabled-permission map offered when
// editing employee roles.
func (s *SettingsService) AvailablePermissions() map[string]bool {
	v := map[string]bool{}
	if s.unmarshal(models.SettingPermissions, &v) && len(v) > 0 {
		return v
	}
	return defaultPermissions()
}

// Set stores a JSON-encoded value under key.
func (s *SettingsService) Set(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	row := models.Setting{Key: key, Value: string(b)}
	return s.DB.Save(&row).Error
}
