package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/auth"
	"github.com/dvanheule/comptoir/internal/gate"
	"github.com/dvanheule/comptoir/internal/httpx"
	"github.com/dvanheule/comptoir/internal/i18n"
	"github.com/dvanheule/comptoir/internal/models"
	"github.com/dvanheule/comptoir/internal/validation"
)

// AdminClientHandler manages clients and client roles. All routes
// require the clients:manage permission.
type AdminClientHandler struct {
	DB   *gorm.DB
	Gate *gate.Gate
}

func NewAdminClientHandler(db *gorm.DB, g *gate.Gate) *AdminClientHandler {
	return &AdminClientHandler{DB: db, Gate: g}
}

func (h *AdminClientHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	uid, _ := auth.UserIDFromContext(r.Context())
	if !h.Gate.Can(r.Context(), uid, models.PermManageClients) {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return false
	}
	return true
}

// List: GET /admin/clients
func (h *AdminClientHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	dbq := h.DB.Preload("ClientRole")
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(company_name) LIKE ? OR lower(contact) LIKE ?", like, like)
	}
	var clients []models.Client
	if err := dbq.Order("company_name asc").Limit(200).Find(&clients).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": clients})
		return
	}
	var roles []models.ClientRole
	_ = h.DB.Order("name asc").Find(&roles).Error
	renderTemplate(w, r, "admin_clients", map[string]any{"Clients": clients, "Roles": roles})
}

// Detail: GET /admin/clients/detail?id=...
func (h *AdminClientHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var client models.Client
	if err := h.DB.Preload("ClientRole").Preload("User").First(&client, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, client)
		return
	}
	var roles []models.ClientRole
	_ = h.DB.Order("name asc").Find(&roles).Error
	renderTemplate(w, r, "admin_client", map[string]any{"Client": client, "Roles": roles})
}

// Create: POST /admin/clients. Creates the client together with an
// invited credential: the user row starts inactive with an invite
// token; the invite link is returned so the employee can pass it on.
func (h *AdminClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	company := strings.TrimSpace(r.FormValue("company_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	roleID, _ := strconv.Atoi(r.FormValue("client_role_id"))
	locale := strings.TrimSpace(r.FormValue("locale"))

	v := validation.Violations{}
	validation.Required("company_name", company, v)
	validation.Required("email", email, v)
	validation.PositiveInt("client_role_id", roleID, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation-error", v)
		return
	}
	var role models.ClientRole
	if err := h.DB.First(&role, roleID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation-error", map[string]string{"client_role_id": "invalid_value"})
		return
	}
	if !i18n.Supported(locale) {
		locale = "fr"
	}

	token := auth.NewInviteToken()
	var client models.Client
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		// Placeholder hash: the account cannot log in until the invite
		// is accepted.
		user := models.User{Email: email, Password: "!invited", Active: false, InviteToken: token}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		client = models.Client{
			UserID:       user.ID,
			CompanyName:  company,
			Contact:      strings.TrimSpace(r.FormValue("contact")),
			Phone:        strings.TrimSpace(r.FormValue("phone")),
			Email:        email,
			VATNumber:    strings.TrimSpace(r.FormValue("vat_number")),
			Locale:       locale,
			ClientRoleID: role.ID,
		}
		if days := r.Form["delivery_days"]; len(days) > 0 {
			client.DeliveryDays = models.ParseWeekdaySet(days)
		}
		if d := strings.TrimSpace(r.FormValue("discount_percent")); d != "" {
			if f, err := strconv.ParseFloat(d, 64); err == nil && f >= 0 && f <= 100 {
				client.DiscountPercent = &f
			}
		}
		return tx.Create(&client).Error
	})
	if txErr != nil {
		log.Error().Err(txErr).Msg("create client")
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": client.ID, "invite_url": "/invite?token=" + token})
}

// Update: POST /admin/clients/update?id=...
func (h *AdminClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var client models.Client
	if err := h.DB.First(&client, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	updates := map[string]any{}
	if v := strings.TrimSpace(r.FormValue("company_name")); v != "" {
		updates["company_name"] = v
	}
	if v, ok := formValue(r, "contact"); ok {
		updates["contact"] = v
	}
	if v, ok := formValue(r, "phone"); ok {
		updates["phone"] = v
	}
	if v, ok := formValue(r, "vat_number"); ok {
		updates["vat_number"] = v
	}
	if v := strings.TrimSpace(r.FormValue("locale")); i18n.Supported(v) {
		updates["locale"] = v
	}
	if v := r.FormValue("client_role_id"); v != "" {
		if rid, err := strconv.Atoi(v); err == nil && rid > 0 {
			var role models.ClientRole
			if err := h.DB.First(&role, rid).Error; err == nil {
				updates["client_role_id"] = role.ID
			}
		}
	}
	if days, ok := r.Form["delivery_days"]; ok {
		updates["delivery_days"] = models.ParseWeekdaySet(days)
	}
	if v, ok := formValue(r, "discount_percent"); ok {
		if v == "" {
			updates["discount_percent"] = nil // back to role tier
		} else if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 100 {
			updates["discount_percent"] = f
		}
	}
	if len(updates) > 0 {
		if err := h.DB.Model(&client).Updates(updates).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// formValue distinguishes "absent" from "present but empty".
func formValue(r *http.Request, key string) (string, bool) {
	vals, ok := r.Form[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return strings.TrimSpace(vals[0]), true
}

// Roles: GET/POST /admin/client-roles
func (h *AdminClientHandler) Roles(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		var roles []models.ClientRole
		if err := h.DB.Order("name asc").Find(&roles).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_roles", nil)
			return
		}
		if httpx.WantsJSON(r) {
			httpx.JSON(w, http.StatusOK, map[string]any{"items": roles})
			return
		}
		renderTemplate(w, r, "admin_client_roles", map[string]any{"Roles": roles})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		name := strings.TrimSpace(r.FormValue("name"))
		slug := strings.TrimSpace(r.FormValue("slug"))
		v := validation.Violations{}
		validation.Required("name", name, v)
		validation.Required("slug", slug, v)
		if !v.Empty() {
			httpx.JSONError(w, http.StatusBadRequest, "validation-error", v)
			return
		}
		discount := 0.0
		if d := r.FormValue("discount_percent"); d != "" {
			if f, err := strconv.ParseFloat(d, 64); err == nil && f >= 0 && f <= 100 {
				discount = f
			}
		}
		role := models.ClientRole{
			Name:            name,
			Slug:            slug,
			DeliveryDays:    models.ParseWeekdaySet(r.Form["delivery_days"]),
			DiscountPercent: discount,
		}
		if err := h.DB.Create(&role).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
			return
		}
		httpx.JSON(w, http.StatusCreated, map[string]any{"id": role.ID})
	default:
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}
