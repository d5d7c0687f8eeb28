package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/httpx"
	"github.com/dvanheule/comptoir/internal/i18n"
	"github.com/dvanheule/comptoir/internal/models"
	"github.com/dvanheule/comptoir/internal/services"
	"github.com/dvanheule/comptoir/internal/validation"
)

// ProfileHandler is the client self-service profile form: contact
// details, locale and addresses. Discount, role and delivery days stay
// employee-managed.
type ProfileHandler struct {
	DB       *gorm.DB
	Settings *services.SettingsService
}

func NewProfileHandler(db *gorm.DB, settings *services.SettingsService) *ProfileHandler {
	return &ProfileHandler{DB: db, Settings: settings}
}

// Show: GET /profile
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(h.DB, r)
	if sess == nil || !sess.IsClient() {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, sess.Client)
		return
	}
	renderTemplate(w, r, "profile", map[string]any{
		"Client":  sess.Client,
		"Locales": h.Settings.AvailableLocales(),
	})
}

// Update: POST /profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(h.DB, r)
	if sess == nil || !sess.IsClient() {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}

	contact := strings.TrimSpace(r.FormValue("contact"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	email := strings.TrimSpace(r.FormValue("email"))
	locale := strings.TrimSpace(r.FormValue("locale"))

	v := validation.Violations{}
	validation.Required("contact", contact, v)
	if locale != "" && !i18n.Supported(locale) {
		v["locale"] = "invalid_value"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation-error", v)
		return
	}
	if locale == "" {
		locale = h.Settings.DefaultLocale()
	}

	updates := map[string]any{
		"contact": contact,
		"phone":   phone,
		"email":   email,
		"locale":  locale,
		"shipping_address": models.Address{
			Line1:      strings.TrimSpace(r.FormValue("ship_line1")),
			Line2:      strings.TrimSpace(r.FormValue("ship_line2")),
			PostalCode: strings.TrimSpace(r.FormValue("ship_postal_code")),
			City:       strings.TrimSpace(r.FormValue("ship_city")),
			Country:    strings.TrimSpace(r.FormValue("ship_country")),
		},
		"billing_address": models.Address{
			Line1:      strings.TrimSpace(r.FormValue("bill_line1")),
			Line2:      strings.TrimSpace(r.FormValue("bill_line2")),
			PostalCode: strings.TrimSpace(r.FormValue("bill_postal_code")),
			City:       strings.TrimSpace(r.FormValue("bill_city")),
			Country:    strings.TrimSpace(r.FormValue("bill_country")),
		},
	}
	if err := h.DB.Model(sess.Client).Updates(updates).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
