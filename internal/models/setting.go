package models

import "time"

// Setting is one key of the portal key-value store. Values are raw JSON
// documents; typed access with fallback defaults lives in the settings
// service.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting keys consumed by the portal.
const (
	SettingCutoffTime      = "order_cutoff_time"
	SettingCutoffDayOffset = "order_cutoff_day_offset"
	SettingDefaultLocale   = "default_locale"
	SettingVATRate         = "vat_rate"
	SettingLocales         = "available_locales"
	SettingPermissions     = "available_permissions"
	SettingUnits           = "available_units"
)
