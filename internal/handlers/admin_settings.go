package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/auth"
	"github.com/dvanheule/comptoir/internal/gate"
	"github.com/dvanheule/comptoir/internal/httpx"
	"github.com/dvanheule/comptoir/internal/i18n"
	"github.com/dvanheule/comptoir/internal/models"
	"github.com/dvanheule/comptoir/internal/services"
	"github.com/dvanheule/comptoir/internal/validation"
)

// AdminSettingsHandler edits the portal-wide settings. Requires
// settings:manage.
type AdminSettingsHandler struct {
	DB       *gorm.DB
	Gate     *gate.Gate
	Settings *services.SettingsService
}

func NewAdminSettingsHandler(db *gorm.DB, g *gate.Gate, settings *services.SettingsService) *AdminSettingsHandler {
	return &AdminSettingsHandler{DB: db, Gate: g, Settings: settings}
}

func (h *AdminSettingsHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	uid, _ := auth.UserIDFromContext(r.Context())
	if !h.Gate.Can(r.Context(), uid, models.PermManageSettings) {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return false
	}
	return true
}

// Show: GET /admin/settings
func (h *AdminSettingsHandler) Show(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	data := map[string]any{
		"CutoffTime":      h.Settings.CutoffTime(),
		"CutoffDayOffset": h.Settings.CutoffDayOffset(),
		"DefaultLocale":   h.Settings.DefaultLocale(),
		"VATRate":         h.Settings.VATRate(),
		"Locales":         h.Settings.AvailableLocales(),
		"Units":           h.Settings.AvailableUnits(),
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, data)
		return
	}
	renderTemplate(w, r, "admin_settings", data)
}

// Update: POST /admin/settings. Only recognized keys are written;
// each value is validated before it is stored.
func (h *AdminSettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}

	v := validation.Violations{}
	type write struct {
		key   string
		value any
	}
	var writes []write

	if cutoff, ok := formValue(r, "cutoff_time"); ok {
		if !validCutoff(cutoff) {
			v["cutoff_time"] = "invalid_value"
		} else {
			writes = append(writes, write{models.SettingCutoffTime, cutoff})
		}
	}
	if offset, ok := formValue(r, "cutoff_day_offset"); ok {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 || n > 30 {
			v["cutoff_day_offset"] = "invalid_value"
		} else {
			writes = append(writes, write{models.SettingCutoffDayOffset, n})
		}
	}
	if locale, ok := formValue(r, "default_locale"); ok {
		if !i18n.Supported(locale) {
			v["default_locale"] = "invalid_value"
		} else {
			writes = append(writes, write{models.SettingDefaultLocale, locale})
		}
	}
	if rate, ok := formValue(r, "vat_rate"); ok {
		f, err := strconv.ParseFloat(rate, 64)
		if err != nil || f < 0 || f > 100 {
			v["vat_rate"] = "invalid_value"
		} else {
			writes = append(writes, write{models.SettingVATRate, f})
		}
	}
	if units, ok := r.Form["units"]; ok {
		m := map[string]bool{}
		for _, u := range units {
			if u = strings.TrimSpace(strings.ToLower(u)); u != "" {
				m[u] = true
			}
		}
		if len(m) == 0 {
			v["units"] = "required"
		} else {
			writes = append(writes, write{models.SettingUnits, m})
		}
	}
	if locales, ok := r.Form["locales"]; ok {
		m := map[string]bool{}
		for _, l := range locales {
			if i18n.Supported(l) {
				m[l] = true
			}
		}
		if len(m) == 0 {
			v["locales"] = "required"
		} else {
			writes = append(writes, write{models.SettingLocales, m})
		}
	}

	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation-error", v)
		return
	}
	for _, wr := range writes {
		if err := h.Settings.Set(wr.key, wr.value); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
			return
		}
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
		return
	}
	http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
}

// validCutoff checks the "HH:MM" shape.
func validCutoff(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return false
	}
	hh, err1 := strconv.Atoi(parts[0])
	mm, err2 := strconv.Atoi(parts[1])
	return err1 == nil && err2 == nil && hh >= 0 && hh <= 23 && mm >= 0 && mm <= 59
}
