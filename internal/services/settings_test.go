package services

import (
	"testing"

	"github.com/dvanheule/comptoir/internal/models"
)

func TestSettingsDefaults(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db)

	if got := svc.CutoffTime(); got != DefaultCutoffTime {
		t.Errorf("CutoffTime = %q, want %q", got, DefaultCutoffTime)
	}
	if got := svc.CutoffDayOffset(); got != DefaultCutoffDayOffset {
		t.Errorf("CutoffDayOffset = %d, want %d", got, DefaultCutoffDayOffset)
	}
	if got := svc.DefaultLocale(); got != DefaultLocale {
		t.Errorf("DefaultLocale = %q, want %q", got, DefaultLocale)
	}
	if got := svc.VATRate(); got != DefaultVATRate {
		t.Errorf("VATRate = %v, want %v", got, DefaultVATRate)
	}
	if got := svc.AvailableLocales(); !got["fr"] || !got["nl"] || !got["en"] {
		t.Errorf("AvailableLocales = %v", got)
	}
	if got := svc.AvailableUnits(); !got["piece"] || !got["kg"] {
		t.Errorf("AvailableUnits = %v", got)
	}
	if got := svc.AvailablePermissions(); !got[models.PermManageOrders] {
		t.Errorf("AvailablePermissions = %v", got)
	}
}

func TestSettingsSetRoundTrip(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db)

	if err := svc.Set(models.SettingCutoffTime, "16:30"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Set(models.SettingCutoffDayOffset, 2); err != nil {
		t.Fatal(err)
	}
	if err := svc.Set(models.SettingVATRate, 6.0); err != nil {
		t.Fatal(err)
	}
	if got := svc.CutoffTime(); got != "16:30" {
		t.Errorf("CutoffTime = %q", got)
	}
	if got := svc.CutoffDayOffset(); got != 2 {
		t.Errorf("CutoffDayOffset = %d", got)
	}
	if got := svc.VATRate(); got != 6.0 {
		t.Errorf("VATRate = %v", got)
	}

	// Overwrite, not duplicate.
	if err := svc.Set(models.SettingCutoffTime, "17:00"); err != nil {
		t.Fatal(err)
	}
	var count int64
	if err := db.Model(&models.Setting{}).Where("key = ?", models.SettingCutoffTime).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("setting row duplicated: %d rows", count)
	}
	if got := svc.CutoffTime(); got != "17:00" {
		t.Errorf("CutoffTime after overwrite = %q", got)
	}
}

func TestSettingsUnreadableValueFallsBack(t *testing.T) {
	db := openTestDB(t)
	row := models.Setting{Key: models.SettingCutoffDayOffset, Value: "not-json"}
	if err := db.Create(&row).Error; err != nil {
		t.Fatal(err)
	}
	svc := NewSettingsService(db)
	if got := svc.CutoffDayOffset(); got != DefaultCutoffDayOffset {
		t.Fatalf("CutoffDayOffset = %d, want fallback %d", got, DefaultCutoffDayOffset)
	}
}
