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
	"github.com/dvanheule/comptoir/internal/models"
	"github.com/dvanheule/comptoir/internal/services"
	"github.com/dvanheule/comptoir/internal/validation"
)

// AdminEmployeeHandler manages back-office staff and their permission
// roles. Requires employees:manage. Role and assignment changes
// invalidate the permission cache so they take effect immediately.
type AdminEmployeeHandler struct {
	DB       *gorm.DB
	Gate     *gate.Gate
	Cache    *gate.CachedResolver
	Settings *services.SettingsService
}

func NewAdminEmployeeHandler(db *gorm.DB, g *gate.Gate, cache *gate.CachedResolver, settings *services.SettingsService) *AdminEmployeeHandler {
	return &AdminEmployeeHandler{DB: db, Gate: g, Cache: cache, Settings: settings}
}

func (h *AdminEmployeeHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	uid, _ := auth.UserIDFromContext(r.Context())
	if !h.Gate.Can(r.Context(), uid, models.PermManageEmployees) {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return false
	}
	return true
}

// List: GET /admin/employees
func (h *AdminEmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	var employees []models.Employee
	if err := h.DB.Preload("Role").Preload("User").Order("last_name asc").Find(&employees).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_employees", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": employees})
		return
	}
	var roles []models.EmployeeRole
	_ = h.DB.Order("name asc").Find(&roles).Error
	renderTemplate(w, r, "admin_employees", map[string]any{"Employees": employees, "Roles": roles})
}

// Create: POST /admin/employees. Like clients, a new employee starts
// as an invited credential.
func (h *AdminEmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	lastName := strings.TrimSpace(r.FormValue("last_name"))
	roleID, _ := strconv.Atoi(r.FormValue("employee_role_id"))

	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.Required("last_name", lastName, v)
	validation.PositiveInt("employee_role_id", roleID, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation-error", v)
		return
	}
	var role models.EmployeeRole
	if err := h.DB.First(&role, roleID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation-error", map[string]string{"employee_role_id": "invalid_value"})
		return
	}

	token := auth.NewInviteToken()
	var employee models.Employee
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{Email: email, Password: "!invited", Active: false, InviteToken: token}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		employee = models.Employee{
			UserID:         user.ID,
			FirstName:      strings.TrimSpace(r.FormValue("first_name")),
			LastName:       lastName,
			EmployeeRoleID: role.ID,
		}
		return tx.Create(&employee).Error
	})
	if txErr != nil {
		log.Error().Err(txErr).Msg("create employee")
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": employee.ID, "invite_url": "/invite?token=" + token})
}

// Update: POST /admin/employees/update?id=... for name and role
// assignment. A role change drops the employee's cached profile.
func (h *AdminEmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var employee models.Employee
	if err := h.DB.First(&employee, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	updates := map[string]any{}
	if v, ok := formValue(r, "first_name"); ok {
		updates["first_name"] = v
	}
	if v, ok := formValue(r, "last_name"); ok && v != "" {
		updates["last_name"] = v
	}
	roleChanged := false
	if v := r.FormValue("employee_role_id"); v != "" {
		rid, err := strconv.Atoi(v)
		if err != nil || rid <= 0 {
			httpx.JSONError(w, http.StatusBadRequest, "validation-error", map[string]string{"employee_role_id": "invalid_value"})
			return
		}
		var role models.EmployeeRole
		if err := h.DB.First(&role, rid).Error; err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation-error", map[string]string{"employee_role_id": "invalid_value"})
			return
		}
		updates["employee_role_id"] = role.ID
		roleChanged = role.ID != employee.EmployeeRoleID
	}
	if len(updates) > 0 {
		if err := h.DB.Model(&employee).Updates(updates).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
			return
		}
	}
	if roleChanged {
		h.Cache.Invalidate(employee.UserID)
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Roles: GET/POST /admin/employee-roles. A POST with an id edits the
// role in place; permission edits flush the whole cache since any
// employee may hold the role.
func (h *AdminEmployeeHandler) Roles(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		var roles []models.EmployeeRole
		if err := h.DB.Order("name asc").Find(&roles).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_roles", nil)
			return
		}
		if httpx.WantsJSON(r) {
			httpx.JSON(w, http.StatusOK, map[string]any{"items": roles})
			return
		}
		renderTemplate(w, r, "admin_employee_roles", map[string]any{
			"Roles":       roles,
			"Permissions": h.Settings.AvailablePermissions(),
		})
	case http.MethodPost:
		h.saveRole(w, r)
	default:
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func (h *AdminEmployeeHandler) saveRole(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	v := validation.Violations{}
	validation.Required("name", name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation-error", v)
		return
	}

	allowed := h.Settings.AvailablePermissions()
	perms := models.PermissionSet{}
	for _, p := range r.Form["permissions"] {
		p = strings.TrimSpace(p)
		if p == models.PermSuperAdmin || allowed[p] {
			perms.Grant(p)
		}
	}

	if idStr := r.FormValue("id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
			return
		}
		var existing models.EmployeeRole
		if err := h.DB.First(&existing, id).Error; err != nil {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		if err := h.DB.Model(&existing).Updates(map[string]any{"name": name, "permissions": perms}).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
			return
		}
		h.Cache.InvalidateAll()
		httpx.JSON(w, http.StatusOK, map[string]any{"id": existing.ID})
		return
	}

	role := models.EmployeeRole{Name: name, Permissions: perms}
	if err := h.DB.Create(&role).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": role.ID})
}
